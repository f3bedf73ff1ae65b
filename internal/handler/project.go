package handler

import (
	"portfolio-api/internal/optional"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/service"
	"portfolio-api/internal/validation"

	"github.com/gin-gonic/gin"
)

type createProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	GithubURL   *string  `json:"githubUrl"`
	WebsiteURL  *string  `json:"websiteUrl"`
	ImageURL    *string  `json:"imageUrl"`
}

type updateProjectRequest struct {
	Name        optional.Value[string]   `json:"name"`
	Description optional.Value[string]   `json:"description"`
	Skills      optional.Value[[]string] `json:"skills"`
	GithubURL   optional.Value[*string]  `json:"githubUrl"`
	WebsiteURL  optional.Value[*string]  `json:"websiteUrl"`
	ImageURL    optional.Value[*string]  `json:"imageUrl"`
}

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("/projects")

	g.GET("", h.list)
	g.GET("/:id", validation.Handle(idRule()), h.get)
	g.POST("", validation.Handle(projectCreateRules...), requireAuth, h.create)
	g.PATCH("/:id", validation.Handle(projectUpdateRules...), requireAuth, h.update)
	g.DELETE("/:id", validation.Handle(idRule()), requireAuth, h.delete)
}

func (h *ProjectHandler) list(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	respond(c, res, err)
}

func (h *ProjectHandler) get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}

func (h *ProjectHandler) create(c *gin.Context) {
	var req createProjectRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.svc.Create(c.Request.Context(), repository.ProjectFields{
		Name:        req.Name,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		WebsiteURL:  req.WebsiteURL,
		ImageURL:    req.ImageURL,
		Skills:      req.Skills,
	})
	respond(c, res, err)
}

func (h *ProjectHandler) update(c *gin.Context) {
	var req updateProjectRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), repository.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		WebsiteURL:  req.WebsiteURL,
		ImageURL:    req.ImageURL,
		Skills:      nonNilSlice(req.Skills),
	})
	respond(c, res, err)
}

func (h *ProjectHandler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}
