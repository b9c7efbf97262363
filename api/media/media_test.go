package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yatube/api/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessGIF(t *testing.T) {
	up, err := Process(bytes.NewReader(testutil.SmallGIF(t)), "small.gif")
	require.NoError(t, err)

	assert.Equal(t, "image/gif", up.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, "posts/"))
	assert.True(t, strings.HasSuffix(up.Key, ".gif"))

	thumb, err := imaging.Decode(bytes.NewReader(up.Thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, thumb.Bounds().Dx())
	assert.Equal(t, ThumbHeight, thumb.Bounds().Dy())
}

func TestProcessRejectsNonImages(t *testing.T) {
	_, err := Process(strings.NewReader("just some text"), "notes.txt")
	assert.ErrorIs(t, err, ErrNotImage)

	// a GIF header with a broken body sniffs as an image but does not decode
	_, err = Process(strings.NewReader("GIF89a-garbage"), "broken.gif")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Process(bytes.NewReader(make([]byte, MaxImageSize+1)), "huge.gif")
	assert.ErrorIs(t, err, ErrTooLarge)
}

// pngHeader is a PNG that only declares its dimensions, enough for
// image.DecodeConfig.
func pngHeader(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], width)
	binary.BigEndian.PutUint32(ihdr[4:], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale
	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestProcessRejectsHugeCanvas(t *testing.T) {
	_, err := Process(bytes.NewReader(pngHeader(12000, 12000)), "bomb.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	// within the cap the header alone is not a decodable image
	_, err = Process(bytes.NewReader(pngHeader(100, 100)), "stub.png")
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestThumbKey(t *testing.T) {
	assert.Equal(t, "posts/thumbs/abc.jpg", ThumbKey("posts/abc.png"))
	assert.Equal(t, "", ThumbKey(""))
}

func TestLocalStoreSaveAndRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media")
	require.NoError(t, err)

	up := &Upload{Key: "posts/a.gif", ContentType: "image/gif", Data: []byte("gif"), Thumb: []byte("jpg")}
	require.NoError(t, Save(ctx, store, up))

	assert.FileExists(t, filepath.Join(root, "posts", "a.gif"))
	assert.FileExists(t, filepath.Join(root, "posts", "thumbs", "a.jpg"))
	assert.Equal(t, "/media/posts/a.gif", store.URL("posts/a.gif"))

	require.NoError(t, Remove(ctx, store, "posts/a.gif"))
	_, err = os.Stat(filepath.Join(root, "posts", "a.gif"))
	assert.True(t, os.IsNotExist(err))

	// removing again is not an error
	assert.NoError(t, Remove(ctx, store, "posts/a.gif"))
}

func TestLocalStoreStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../../escape.txt", []byte("x"), "text/plain"))
	assert.FileExists(t, filepath.Join(root, "escape.txt"))
}

type fakeS3 struct {
	puts    []string
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "yatube-media", region: "us-east-2"}

	up := &Upload{Key: "posts/a.png", ContentType: "image/png", Data: []byte("png"), Thumb: []byte("jpg")}
	require.NoError(t, Save(ctx, store, up))
	require.NoError(t, Remove(ctx, store, up.Key))

	assert.Equal(t, []string{"posts/a.png", "posts/thumbs/a.jpg"}, fake.puts)
	assert.Equal(t, []string{"posts/a.png", "posts/thumbs/a.jpg"}, fake.deletes)
	assert.Equal(t, "https://yatube-media.s3.us-east-2.amazonaws.com/posts/a.png", store.URL("posts/a.png"))
}

func TestS3StoreAddressing(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	store, err := NewS3Store(context.Background(), "yatube-media", "eu-west-1")
	require.NoError(t, err)

	client, ok := store.client.(*s3.Client)
	require.True(t, ok)
	assert.False(t, client.Options().UsePathStyle)
	assert.Equal(t, "https://yatube-media.s3.eu-west-1.amazonaws.com/posts/a.png", store.URL("posts/a.png"))
}
