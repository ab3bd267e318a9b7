package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/content"
)

// ArticleHandler handles blog articles
type ArticleHandler struct {
	BaseHandler
	articleService *content.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *content.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ListPublished godoc
// @ID           listArticles
// @Summary      List published articles
// @Tags         articles
// @Produce      json
// @Param        search    query string false "Title search"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]content.ArticleResponse]
// @Router       /articles [get]
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	var filter content.ArticleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	articles, err := h.articleService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, articles)
}

// GetBySlug godoc
// @ID           getArticleBySlug
// @Summary      Get a published article
// @Tags         articles
// @Produce      json
// @Param        slug path string true "Article slug"
// @Success      200 {object} APIResponse[content.ArticleResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /articles/{slug} [get]
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.articleService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// List godoc
// @ID           listArticlesAdmin
// @Summary      List all articles
// @Description  Drafts and inactive articles included
// @Tags         admin-articles
// @Produce      json
// @Param        search    query string false "Title search"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]content.ArticleResponse]
// @Security     BearerAuth
// @Router       /admin/articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	var filter content.ArticleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	articles, err := h.articleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, articles)
}

// Get godoc
// @ID           getArticleAdmin
// @Summary      Get an article
// @Tags         admin-articles
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} APIResponse[content.ArticleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/articles/{id} [get]
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Create godoc
// @ID           createArticle
// @Summary      Create an article
// @Description  The slug is generated from the title when omitted
// @Tags         admin-articles
// @Accept       json
// @Produce      json
// @Param        request body content.ArticleRequest true "Article"
// @Success      201 {object} APIResponse[content.ArticleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	authorID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req content.ArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, article)
}

// Update godoc
// @ID           updateArticle
// @Summary      Update an article
// @Tags         admin-articles
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Article ID" format(uuid)
// @Param        request body content.ArticleRequest true "Article"
// @Success      200 {object} APIResponse[content.ArticleResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/articles/{id} [put]
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req content.ArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Delete godoc
// @ID           deleteArticle
// @Summary      Delete an article
// @Tags         admin-articles
// @Param        id path string true "Article ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// BannerHandler handles storefront banners
type BannerHandler struct {
	BaseHandler
	bannerService *content.BannerService
}

// NewBannerHandler creates a new BannerHandler
func NewBannerHandler(bannerService *content.BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService}
}

// Live godoc
// @ID           listLiveBanners
// @Summary      List live banners
// @Description  Active banners inside their display window, ordered by sort order
// @Tags         banners
// @Produce      json
// @Param        position query string false "home_hero, home_middle or sidebar"
// @Success      200 {object} APIResponse[[]content.BannerResponse]
// @Router       /banners [get]
func (h *BannerHandler) Live(c *gin.Context) {
	banners, err := h.bannerService.Live(c.Request.Context(), c.Query("position"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banners)
}

// List godoc
// @ID           listBannersAdmin
// @Summary      List all banners
// @Tags         admin-banners
// @Produce      json
// @Param        position query string false "home_hero, home_middle or sidebar"
// @Success      200 {object} APIResponse[[]content.BannerResponse]
// @Security     BearerAuth
// @Router       /admin/banners [get]
func (h *BannerHandler) List(c *gin.Context) {
	banners, err := h.bannerService.List(c.Request.Context(), c.Query("position"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banners)
}

// Get godoc
// @ID           getBanner
// @Summary      Get a banner
// @Tags         admin-banners
// @Produce      json
// @Param        id path string true "Banner ID" format(uuid)
// @Success      200 {object} APIResponse[content.BannerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/banners/{id} [get]
func (h *BannerHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	banner, err := h.bannerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banner)
}

// Create godoc
// @ID           createBanner
// @Summary      Create a banner
// @Tags         admin-banners
// @Accept       json
// @Produce      json
// @Param        request body content.BannerRequest true "Banner"
// @Success      201 {object} APIResponse[content.BannerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/banners [post]
func (h *BannerHandler) Create(c *gin.Context) {
	var req content.BannerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	banner, err := h.bannerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, banner)
}

// Update godoc
// @ID           updateBanner
// @Summary      Update a banner
// @Tags         admin-banners
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Banner ID" format(uuid)
// @Param        request body content.BannerRequest true "Banner"
// @Success      200 {object} APIResponse[content.BannerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/banners/{id} [put]
func (h *BannerHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req content.BannerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	banner, err := h.bannerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banner)
}

// Delete godoc
// @ID           deleteBanner
// @Summary      Delete a banner
// @Tags         admin-banners
// @Param        id path string true "Banner ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/banners/{id} [delete]
func (h *BannerHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.bannerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
