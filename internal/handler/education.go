package handler

import (
	"portfolio-api/internal/optional"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/service"
	"portfolio-api/internal/validation"

	"github.com/gin-gonic/gin"
)

type createEducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Description  string `json:"description"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

func (r createEducationRequest) fields() (repository.EducationFields, error) {
	start, err := validation.ParseTimestamp(r.StartDate)
	if err != nil {
		return repository.EducationFields{}, err
	}
	end, err := validation.ParseTimestamp(r.EndDate)
	if err != nil {
		return repository.EducationFields{}, err
	}
	return repository.EducationFields{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		Description:  r.Description,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

type updateEducationRequest struct {
	School       optional.Value[string] `json:"school"`
	Degree       optional.Value[string] `json:"degree"`
	FieldOfStudy optional.Value[string] `json:"fieldOfStudy"`
	Description  optional.Value[string] `json:"description"`
	StartDate    optional.Value[string] `json:"startDate"`
	EndDate      optional.Value[string] `json:"endDate"`
}

func (r updateEducationRequest) patch() (repository.EducationPatch, error) {
	start, err := parseOptionalTimestamp(r.StartDate)
	if err != nil {
		return repository.EducationPatch{}, err
	}
	end, err := parseOptionalTimestamp(r.EndDate)
	if err != nil {
		return repository.EducationPatch{}, err
	}
	return repository.EducationPatch{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		Description:  r.Description,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

type EducationHandler struct {
	svc *service.EducationService
}

func NewEducationHandler(svc *service.EducationService) *EducationHandler {
	return &EducationHandler{svc: svc}
}

func (h *EducationHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("/education")

	g.GET("", h.list)
	g.GET("/:id", validation.Handle(idRule()), h.get)
	g.POST("", validation.Handle(educationCreateRules...), requireAuth, h.create)
	g.PATCH("/:id", validation.Handle(educationUpdateRules...), requireAuth, h.update)
	g.DELETE("/:id", validation.Handle(idRule()), requireAuth, h.delete)
}

func (h *EducationHandler) list(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	respond(c, res, err)
}

func (h *EducationHandler) get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}

func (h *EducationHandler) create(c *gin.Context) {
	var req createEducationRequest
	if !bind(c, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		malformed(c)
		return
	}

	res, err := h.svc.Create(c.Request.Context(), fields)
	respond(c, res, err)
}

func (h *EducationHandler) update(c *gin.Context) {
	var req updateEducationRequest
	if !bind(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		malformed(c)
		return
	}

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	respond(c, res, err)
}

func (h *EducationHandler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}
