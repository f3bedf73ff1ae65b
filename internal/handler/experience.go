package handler

import (
	"time"

	"portfolio-api/internal/optional"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/service"
	"portfolio-api/internal/validation"

	"github.com/gin-gonic/gin"
)

type createExperienceRequest struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	BulletPoints []string `json:"bulletPoints"`
	Skills       []string `json:"skills"`
	StartDate    string   `json:"startDate"`
	EndDate      *string  `json:"endDate"`
}

func (r createExperienceRequest) fields() (repository.ExperienceFields, error) {
	start, err := validation.ParseTimestamp(r.StartDate)
	if err != nil {
		return repository.ExperienceFields{}, err
	}

	var end *time.Time
	if r.EndDate != nil {
		t, err := validation.ParseTimestamp(*r.EndDate)
		if err != nil {
			return repository.ExperienceFields{}, err
		}
		end = &t
	}

	return repository.ExperienceFields{
		Company:      r.Company,
		Position:     r.Position,
		BulletPoints: r.BulletPoints,
		Skills:       r.Skills,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

type updateExperienceRequest struct {
	Company      optional.Value[string]   `json:"company"`
	Position     optional.Value[string]   `json:"position"`
	BulletPoints optional.Value[[]string] `json:"bulletPoints"`
	Skills       optional.Value[[]string] `json:"skills"`
	StartDate    optional.Value[string]   `json:"startDate"`
	EndDate      optional.Value[string]   `json:"endDate"`
}

func (r updateExperienceRequest) patch() (repository.ExperiencePatch, error) {
	start, err := parseOptionalTimestamp(r.StartDate)
	if err != nil {
		return repository.ExperiencePatch{}, err
	}

	end := optional.None[*time.Time]()
	if parsed, err := parseOptionalTimestamp(r.EndDate); err != nil {
		return repository.ExperiencePatch{}, err
	} else if t, ok := parsed.Get(); ok {
		end = optional.Some(&t)
	}

	return repository.ExperiencePatch{
		Company:      r.Company,
		Position:     r.Position,
		BulletPoints: nonNilSlice(r.BulletPoints),
		Skills:       nonNilSlice(r.Skills),
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// nonNilSlice keeps a present relation present even when it decoded to nil.
func nonNilSlice(v optional.Value[[]string]) optional.Value[[]string] {
	s, ok := v.Get()
	if !ok {
		return v
	}
	if s == nil {
		s = []string{}
	}
	return optional.Some(s)
}

type ExperienceHandler struct {
	svc *service.ExperienceService
}

func NewExperienceHandler(svc *service.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{svc: svc}
}

func (h *ExperienceHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("/experiences")

	g.GET("", h.list)
	g.GET("/:id", validation.Handle(idRule()), h.get)
	g.POST("", validation.Handle(experienceCreateRules...), requireAuth, h.create)
	g.PATCH("/:id", validation.Handle(experienceUpdateRules...), requireAuth, h.update)
	g.DELETE("/:id", validation.Handle(idRule()), requireAuth, h.delete)
}

func (h *ExperienceHandler) list(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	respond(c, res, err)
}

func (h *ExperienceHandler) get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}

func (h *ExperienceHandler) create(c *gin.Context) {
	var req createExperienceRequest
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

func (h *ExperienceHandler) update(c *gin.Context) {
	var req updateExperienceRequest
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

func (h *ExperienceHandler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	respond(c, res, err)
}
