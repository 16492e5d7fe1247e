package controller

import (
	"career-mentor-be/internal/dto"
	"career-mentor-be/internal/pkg/serverutils"
	"career-mentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMentorController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
	UpdateSkills(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	LogApplication(ctx *fiber.Ctx) error
	GetMemoryInsights(ctx *fiber.Ctx) error
}

type mentorController struct {
	service service.IMentorService
}

func NewMentorController(service service.IMentorService) IMentorController {
	return &mentorController{service: service}
}

func (c *mentorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/mentor/v1")
	h.Post("/chat", c.Chat)
	h.Get("/users/:userId/profile", c.GetProfile)
	h.Put("/users/:userId/profile", c.UpdateProfile)
	h.Put("/users/:userId/skills", c.UpdateSkills)
	h.Post("/users/:userId/applications", c.LogApplication)
	h.Get("/users/:userId/memory", c.GetMemoryInsights)
}

func (c *mentorController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *mentorController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetProfile(ctx.UserContext(), ctx.Params("userId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *mentorController) UpdateSkills(ctx *fiber.Ctx) error {
	var req dto.UpdateSkillsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.UpdateSkills(ctx.UserContext(), ctx.Params("userId"), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Skills updated", nil))
}

func (c *mentorController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), ctx.Params("userId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *mentorController) LogApplication(ctx *fiber.Ctx) error {
	var req dto.LogApplicationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LogApplication(ctx.UserContext(), ctx.Params("userId"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Application logged", res))
}

func (c *mentorController) GetMemoryInsights(ctx *fiber.Ctx) error {
	res, err := c.service.GetMemoryInsights(ctx.UserContext(), ctx.Params("userId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get memory insights", res))
}
