package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)

	// ListActive returns every active employee, ordered by last name.
	// The all-employees attendance view fans out over this list.
	ListActive(ctx context.Context) ([]Employee, error)
}
