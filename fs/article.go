package fs

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/fwojciec/hndigest"
)

// Ensure ArticleFile implements hndigest.ArticleSource at compile time.
var _ hndigest.ArticleSource = (*ArticleFile)(nil)

// ArticleFile reads and writes a JSON array of articles, such as a saved
// list of HackerNews top stories.
type ArticleFile struct {
	path string
}

// NewArticleFile creates an ArticleFile at path.
func NewArticleFile(path string) *ArticleFile {
	return &ArticleFile{path: path}
}

// ListArticles reads the articles in file order.
func (f *ArticleFile) ListArticles(_ context.Context) ([]*hndigest.Article, error) {
	data, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	var articles []*hndigest.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, hndigest.Errorf(hndigest.EINVALID, "malformed articles in %s: %v", f.path, err)
	}
	return slices.DeleteFunc(articles, func(a *hndigest.Article) bool { return a == nil }), nil
}

// SaveArticles atomically replaces the file contents.
func (f *ArticleFile) SaveArticles(_ context.Context, articles []*hndigest.Article) error {
	if articles == nil {
		articles = []*hndigest.Article{}
	}
	data, err := marshalIndent(articles)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}
