package http

import (
	"net/http"

	"github.com/evidenta/portal-backend/internal/domain/employee"
	"github.com/evidenta/portal-backend/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeRepository employee.EmployeeRepository
}

func NewEmployeeHandler(employeeRepository employee.EmployeeRepository) EmployeeHandler {
	return &employeeHandlerImpl{employeeRepository: employeeRepository}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeRepository.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}
