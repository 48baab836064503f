package employee

type CreateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            string  `json:"phone"`
	EmployeeNumber   string  `json:"employee_number"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	EmploymentStatus string  `json:"employment_status" binding:"required,oneof=ACTIVE ON_NOTICE TERMINATED"`
	CountryCode      string  `json:"country_code"`
	HireDate         string  `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            string  `json:"phone"`
	EmployeeNumber   string  `json:"employee_number" binding:"required"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	EmploymentStatus string  `json:"employment_status" binding:"required,oneof=ACTIVE ON_NOTICE TERMINATED"`
	CountryCode      string  `json:"country_code"`
	HireDate         string  `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	EmployeeNumber   string  `json:"employee_number"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone,omitempty"`
	ManagerID        *string `json:"manager_id,omitempty"`
	ManagerName      string  `json:"manager_name,omitempty"`
	EmploymentStatus string  `json:"employment_status"`
	CountryCode      string  `json:"country_code"`
	HireDate         string  `json:"hire_date"`
}
