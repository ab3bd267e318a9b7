package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Điện thoại giá rẻ 2024", "dien-thoai-gia-re-2024"},
		{"  Khuyến mãi -- Tết!! ", "khuyen-mai-tet"},
		{"Hello World", "hello-world"},
		{"Đồng hồ Thông minh", "dong-ho-thong-minh"},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("tin-tuc-moi"))
	assert.False(t, IsValidSlug("Tin-Tuc"))
	assert.False(t, IsValidSlug("double--dash"))
	assert.False(t, IsValidSlug("-lead"))
	assert.False(t, IsValidSlug(""))
}

func TestNewArticle(t *testing.T) {
	a, err := NewArticle(ArticleInput{Title: "Mẹo chọn laptop", Content: "...", Active: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "meo-chon-laptop", a.Slug)
	require.NotNil(t, a.PublishedAt)
	assert.True(t, a.IsPublished(time.Now().Add(time.Second)))

	_, err = NewArticle(ArticleInput{Title: "x", Slug: "Bad Slug", Content: "..."}, nil)
	assert.Error(t, err)

	draft, err := NewArticle(ArticleInput{Title: "Draft", Content: "..."}, nil)
	require.NoError(t, err)
	assert.False(t, draft.IsPublished(time.Now()))
}

func TestBanner(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	b, err := NewBanner(BannerInput{Title: "Sale", ImageURL: "https://img", Position: PositionHomeHero, Active: true, EndsAt: &later})
	require.NoError(t, err)
	assert.True(t, b.IsLive(now))
	assert.False(t, b.IsLive(later))

	_, err = NewBanner(BannerInput{Title: "Sale", ImageURL: "https://img", Position: "footer"})
	assert.Error(t, err)

	_, err = NewBanner(BannerInput{Title: "Sale", ImageURL: "https://img", Position: PositionSidebar, StartsAt: &later, EndsAt: &now})
	assert.Error(t, err)
}
