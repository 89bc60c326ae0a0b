package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
	"skydrive/pkg/response"
)

type PlanHandler struct {
	planUseCase *usecase.PlanUseCase
}

func NewPlanHandler(planUseCase *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{
		planUseCase: planUseCase,
	}
}

func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.planUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, plans)
}

func (h *PlanHandler) Get(c echo.Context) error {
	plan, err := h.planUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, plan)
}
