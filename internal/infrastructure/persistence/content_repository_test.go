package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/secureshop/backend/internal/domain/content"
	"github.com/secureshop/backend/internal/domain/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormArticleRepository_PublishedOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormArticleRepository(db)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	for _, in := range []content.ArticleInput{
		{Title: "Buying guide", Content: "body", PublishedAt: &past, Active: true},
		{Title: "Coming soon", Content: "body", PublishedAt: &future, Active: true},
		{Title: "Hidden", Content: "body", PublishedAt: &past, Active: false},
	} {
		a, err := content.NewArticle(in, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, a))
	}

	list, total, err := repo.FindAll(ctx, content.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	got, err := repo.FindBySlug(ctx, list[0].Slug)
	require.NoError(t, err)
	assert.Equal(t, "Buying guide", got.Title)

	_, total, err = repo.FindAll(ctx, content.ArticleFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestGormBannerRepository_FindLive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormBannerRepository(db)

	now := time.Now().UTC()
	ended := now.Add(-time.Hour)
	for i, in := range []content.BannerInput{
		{Title: "Second", ImageURL: "https://cdn.example.com/2.jpg", Position: content.PositionHomeHero, SortOrder: 2, Active: true},
		{Title: "First", ImageURL: "https://cdn.example.com/1.jpg", Position: content.PositionHomeHero, SortOrder: 1, Active: true},
		{Title: "Expired", ImageURL: "https://cdn.example.com/3.jpg", Position: content.PositionHomeHero, Active: true, EndsAt: &ended},
		{Title: "Sidebar", ImageURL: "https://cdn.example.com/4.jpg", Position: content.PositionSidebar, Active: true},
	} {
		b, err := content.NewBanner(in)
		require.NoError(t, err, "banner %d", i)
		require.NoError(t, repo.Create(ctx, b))
	}

	hero := content.PositionHomeHero
	live, err := repo.FindLive(ctx, &hero, now)
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, "First", live[0].Title)
	assert.Equal(t, "Second", live[1].Title)

	all, err := repo.FindAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGormWarrantyRepository_ExistsOpen(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormWarrantyRepository(db)
	user := seedUser(t, db, "warranty@example.com")
	product := seedProduct(t, db, "WR-1", "Kettle", 300000, 3)
	o := seedOrder(t, db, user.ID, product)

	w, err := support.NewWarrantyRequest(user.ID, o.ID, product.ID, support.IssueDefect, "It stopped heating")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, w))

	open, err := repo.ExistsOpen(ctx, o.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, open)

	require.NoError(t, w.Reject("Physical damage"))
	require.NoError(t, repo.Update(ctx, w))

	open, err = repo.ExistsOpen(ctx, o.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, open)

	list, total, err := repo.FindAll(ctx, support.WarrantyFilter{UserID: &user.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Physical damage", list[0].AdminNote)
}

func TestGormTicketRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTicketRepository(db)
	user := seedUser(t, db, "ticket@example.com")
	admin := seedUser(t, db, "admin@example.com")

	ticket, err := support.NewTicket(user.ID, "Late delivery", "shipping", "Where is my order?")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ticket))
	require.NoError(t, ticket.Reply(admin.ID, "On its way"))
	require.NoError(t, repo.Update(ctx, ticket))

	status := support.TicketInProgress
	list, total, err := repo.FindAll(ctx, support.TicketFilter{Status: &status, Search: "late"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "On its way", list[0].AdminReply)
	assert.Equal(t, &admin.ID, list[0].RepliedBy)
}
