// Package seed fills a database with fixture users, groups, posts, comments
// and follows described in a YAML file.
package seed

import (
	"io"
	"os"
	"strings"
	"time"

	"yatube/api/models"
	Logger "yatube/api/utils/log"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"gorm.io/gorm"
)

type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Groups   []GroupFixture   `yaml:"groups"`
	Posts    []PostFixture    `yaml:"posts"`
	Comments []CommentFixture `yaml:"comments"`
	Follows  []FollowFixture  `yaml:"follows"`
}

type UserFixture struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	IsAdmin   bool   `yaml:"is_admin"`
}

type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// PostFixture refers to its author by username and its group by slug.
// PubDate accepts any format dateparse understands.
type PostFixture struct {
	Author  string `yaml:"author"`
	Group   string `yaml:"group"`
	Text    string `yaml:"text"`
	PubDate string `yaml:"pub_date"`
}

// CommentFixture attaches to the first post of PostAuthor whose text starts
// with Post.
type CommentFixture struct {
	Author     string `yaml:"author"`
	PostAuthor string `yaml:"post_author"`
	Post       string `yaml:"post"`
	Text       string `yaml:"text"`
}

type FollowFixture struct {
	User   string `yaml:"user"`
	Author string `yaml:"author"`
}

// Stats counts the rows a load inserted.
type Stats struct {
	Users, Groups, Posts, Comments, Follows int
}

func LoadFile(db *gorm.DB, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, errors.Wrap(err, "open fixture")
	}
	defer f.Close()
	return Load(db, f)
}

// Load applies a fixture in one transaction. Rows that already exist, matched
// by username, slug or post text, are left alone so a fixture can be loaded
// more than once.
func Load(db *gorm.DB, r io.Reader) (Stats, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil && err != io.EOF {
		return Stats{}, errors.Wrap(err, "decode fixture")
	}

	var stats Stats
	err := db.Transaction(func(tx *gorm.DB) error {
		users := map[string]*models.User{}
		for _, uf := range fixture.Users {
			user, created, err := ensureUser(tx, uf)
			if err != nil {
				return err
			}
			users[user.Username] = user
			if created {
				stats.Users++
			}
		}
		lookupUser := func(username string) (*models.User, error) {
			username = strings.ToLower(strings.TrimSpace(username))
			if user, ok := users[username]; ok {
				return user, nil
			}
			user, err := models.FindUserByUsername(tx, username)
			if err != nil {
				return nil, err
			}
			users[username] = user
			return user, nil
		}

		groups := map[string]*models.Group{}
		for _, gf := range fixture.Groups {
			group, created, err := ensureGroup(tx, gf)
			if err != nil {
				return err
			}
			groups[group.Slug] = group
			if created {
				stats.Groups++
			}
		}

		for _, pf := range fixture.Posts {
			author, err := lookupUser(pf.Author)
			if err != nil {
				return errors.Wrapf(err, "author of post %q", pf.Text)
			}
			post := &models.Post{Text: pf.Text, AuthorID: author.ID}
			post.Prepare()
			if pf.Group != "" {
				group, ok := groups[pf.Group]
				if !ok {
					if group, err = models.FindGroupBySlug(tx, pf.Group); err != nil {
						return err
					}
					groups[group.Slug] = group
				}
				post.GroupID = &group.ID
			}
			if pf.PubDate != "" {
				if post.PubDate, err = dateparse.ParseIn(pf.PubDate, time.Local); err != nil {
					return errors.Wrapf(err, "pub_date of post %q", pf.Text)
				}
			}
			if msgs := post.Validate(); len(msgs) > 0 {
				return errors.Errorf("invalid post by %s: %v", author.Username, msgs)
			}
			var n int64
			if err := tx.Model(&models.Post{}).Where("author_id = ? AND text = ?", author.ID, post.Text).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if _, err := post.SavePost(tx); err != nil {
				return err
			}
			stats.Posts++
		}

		for _, cf := range fixture.Comments {
			author, err := lookupUser(cf.Author)
			if err != nil {
				return errors.Wrapf(err, "author of comment %q", cf.Text)
			}
			postAuthor, err := lookupUser(cf.PostAuthor)
			if err != nil {
				return errors.Wrapf(err, "post author of comment %q", cf.Text)
			}
			var post models.Post
			err = tx.Where("author_id = ? AND text LIKE ?", postAuthor.ID, cf.Post+"%").
				Order("id asc").Take(&post).Error
			if err != nil {
				return errors.Wrapf(err, "post %q of %s", cf.Post, postAuthor.Username)
			}
			comment := &models.Comment{Text: cf.Text, AuthorID: author.ID, PostID: post.ID}
			comment.Prepare()
			if msgs := comment.Validate(); len(msgs) > 0 {
				return errors.Errorf("invalid comment by %s: %v", author.Username, msgs)
			}
			var n int64
			err = tx.Model(&models.Comment{}).
				Where("post_id = ? AND author_id = ? AND text = ?", post.ID, author.ID, comment.Text).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if _, err := comment.SaveComment(tx); err != nil {
				return err
			}
			stats.Comments++
		}

		for _, ff := range fixture.Follows {
			user, err := lookupUser(ff.User)
			if err != nil {
				return errors.Wrapf(err, "follower %q", ff.User)
			}
			author, err := lookupUser(ff.Author)
			if err != nil {
				return errors.Wrapf(err, "followed author %q", ff.Author)
			}
			created, err := models.FollowAuthor(tx, user.ID, author.ID)
			if err != nil {
				return errors.Wrapf(err, "%s follows %s", user.Username, author.Username)
			}
			if created {
				stats.Follows++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	Logger.Log.WithField("stats", stats).Info("fixture loaded")
	return stats, nil
}

func ensureUser(tx *gorm.DB, uf UserFixture) (*models.User, bool, error) {
	user := &models.User{
		Username:  uf.Username,
		Email:     uf.Email,
		Password:  uf.Password,
		FirstName: uf.FirstName,
		LastName:  uf.LastName,
		IsAdmin:   uf.IsAdmin,
	}
	user.Prepare()

	existing, err := models.FindUserByUsername(tx, user.Username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if msgs := user.Validate(""); len(msgs) > 0 {
		return nil, false, errors.Errorf("invalid user %q: %v", uf.Username, msgs)
	}
	if _, err := user.SaveUser(tx); err != nil {
		return nil, false, errors.Wrapf(err, "save user %q", user.Username)
	}
	return user, true, nil
}

func ensureGroup(tx *gorm.DB, gf GroupFixture) (*models.Group, bool, error) {
	group := &models.Group{Title: gf.Title, Slug: gf.Slug, Description: gf.Description}
	group.Prepare()

	existing, err := models.FindGroupBySlug(tx, group.Slug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if msgs := group.Validate(); len(msgs) > 0 {
		return nil, false, errors.Errorf("invalid group %q: %v", gf.Slug, msgs)
	}
	if _, err := group.SaveGroup(tx); err != nil {
		return nil, false, errors.Wrapf(err, "save group %q", group.Slug)
	}
	return group, true, nil
}
