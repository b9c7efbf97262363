package controllers

import (
	"context"
	"fmt"

	"yatube/api/pagination"
)

const indexCachePrefix = "index_page:"

func indexCacheKey(rawPage string) string {
	return fmt.Sprintf("%s%d", indexCachePrefix, pagination.ParseNumber(rawPage))
}

func (server *Server) invalidateIndexCache(ctx context.Context) error {
	return server.Cache.DeleteByPrefix(ctx, indexCachePrefix)
}
