package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workbench/internal/faults"
)

func (h *handlers) cardNo(c *gin.Context) (string, bool) {
	var body EmployeeID
	if !bindJSON(c, &body) {
		return "", false
	}
	card := strings.TrimSpace(body.CardNo)
	if card == "" {
		abortWithError(c, faults.Wrap(faults.ErrValidation, "api", "employee", "employee_rfid_card_no is required", nil))
		return "", false
	}
	return card, true
}

func (h *handlers) employeeInfo(c *gin.Context) {
	card, valid := h.cardNo(c)
	if !valid {
		return
	}
	employee, err := h.station.LookupEmployee(c.Request.Context(), card)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmployeeOut{
		GenericResponse: ok("Employee retrieved successfully"),
		EmployeeData:    fromEmployee(employee),
	})
}

func (h *handlers) logIn(c *gin.Context) {
	card, valid := h.cardNo(c)
	if !valid {
		return
	}
	employee, err := h.station.LoginByCard(c.Request.Context(), card)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmployeeOut{
		GenericResponse: ok("Employee logged in successfully"),
		EmployeeData:    fromEmployee(employee),
	})
}

func (h *handlers) logOut(c *gin.Context) {
	if err := h.station.Logout(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Employee logged out successfully"))
}
