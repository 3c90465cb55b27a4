package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	genService "soalklinis_backend/internals/features/generator/service"
	"soalklinis_backend/internals/features/questions/dto"
	"soalklinis_backend/internals/features/questions/repository"
	questionService "soalklinis_backend/internals/features/questions/service"
	helper "soalklinis_backend/internals/helpers"
)

type QuestionController struct {
	Repo      *repository.QuestionRepository
	Update    *questionService.UpdateService
	Generator *genService.GeneratorService
}

func NewQuestionController(db *gorm.DB, gen *genService.GeneratorService) *QuestionController {
	repo := repository.NewQuestionRepository(db)
	return &QuestionController{
		Repo:      repo,
		Update:    questionService.NewUpdateService(repo),
		Generator: gen,
	}
}

// GET /api/questions?systemId=&page=&limit=
func (ctrl *QuestionController) List(c *fiber.Ctx) error {
	systemID, err := strconv.ParseInt(c.Query("systemId"), 10, 64)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "systemId query parameter is required")
	}

	paging := helper.ResolvePaging(c, 50, 200)

	items, err := ctrl.Repo.ListBySystem(c.UserContext(), systemID, paging.Limit, paging.Offset)
	if err != nil {
		log.Println("[ERROR] list questions:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load questions")
	}
	return helper.JsonOK(c, items)
}

// GET /api/questions/:id
func (ctrl *QuestionController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid question id")
	}

	q, err := ctrl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return questionNotFound(c, id)
		}
		log.Println("[ERROR] get question:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load question")
	}
	return helper.JsonOK(c, q)
}

// GET /api/questions/:id/before — best-effort pre-duplication snapshot
func (ctrl *QuestionController) GetBefore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid question id")
	}

	q, err := ctrl.Repo.FindBefore(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return questionNotFound(c, id)
		}
		log.Println("[ERROR] get question before:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load question")
	}
	return helper.JsonOK(c, q)
}

// POST /api/questions/:id/generate — the generator receives the live row,
// not the client's copy, so a stale client cannot skew the prompt.
func (ctrl *QuestionController) Generate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid question id")
	}

	q, err := ctrl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return questionNotFound(c, id)
		}
		log.Println("[ERROR] generate, load question:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load question")
	}

	draft, err := ctrl.Generator.Generate(c.UserContext(), dto.DraftFromModel(q))
	if err != nil {
		log.Println("[ERROR] generate:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Grok API error", err.Error())
	}

	return helper.JsonOK(c, fiber.Map{"result": draft})
}

// PATCH /api/questions/:id — validated full replace
func (ctrl *QuestionController) Patch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid question id")
	}

	var req dto.ReplaceQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid payload")
	}

	if err := ctrl.Update.CommitReplacement(c.UserContext(), id, req); err != nil {
		var verr *questionService.ValidationError
		switch {
		case errors.As(err, &verr):
			return helper.JsonError(c, fiber.StatusBadRequest, "Validation Error", verr.Error())
		case errors.Is(err, questionService.ErrQuestionNotFound):
			return questionNotFound(c, id)
		default:
			log.Println("[ERROR] commit replacement:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to update question")
		}
	}
	return helper.JsonSuccess(c)
}

// PATCH /api/questions/:id/accept
func (ctrl *QuestionController) Accept(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid question id")
	}

	var req dto.AcceptRequest
	if err := c.BodyParser(&req); err != nil || req.IsAccepted == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "is_accepted is required")
	}

	if err := ctrl.Update.SetAcceptance(c.UserContext(), id, *req.IsAccepted); err != nil {
		if errors.Is(err, questionService.ErrQuestionNotFound) {
			return questionNotFound(c, id)
		}
		log.Println("[ERROR] set acceptance:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to update question")
	}
	return helper.JsonSuccess(c)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func questionNotFound(c *fiber.Ctx, id int64) error {
	return helper.JsonError(c, fiber.StatusNotFound, "Question not found",
		fmt.Sprintf("No question found with ID %d", id))
}
