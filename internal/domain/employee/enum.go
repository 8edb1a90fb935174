package employee

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/validator"
)

type Designation string

const (
	DesignationManager            Designation = "Manager"
	DesignationDeveloper          Designation = "Developer"
	DesignationDesigner           Designation = "Designer"
	DesignationHR                 Designation = "HR"
	DesignationSoftwareEngineer   Designation = "Software Engineer"
	DesignationQAEngineer         Designation = "QA Engineer"
	DesignationDevOpsEngineer     Designation = "DevOps Engineer"
	DesignationHRSpecialist       Designation = "HR Specialist"
	DesignationHRManager          Designation = "HR Manager"
	DesignationProductManager     Designation = "Product Manager"
	DesignationUIUXDesigner       Designation = "UI/UX Designer"
	DesignationGraphicDesigner    Designation = "Graphic Designer"
	DesignationDataAnalyst        Designation = "Data Analyst"
	DesignationMarketingExecutive Designation = "Marketing Executive"
	DesignationFinanceAnalyst     Designation = "Finance Analyst"
	DesignationContentWriter      Designation = "Content Writer"
	DesignationSupportEngineer    Designation = "Support Engineer"
	DesignationLeadDeveloper      Designation = "Lead Developer"
	DesignationBusinessAnalyst    Designation = "Business Analyst"
)

type Department string

const (
	DepartmentEngineering      Department = "Engineering"
	DepartmentSales            Department = "Sales"
	DepartmentMarketing        Department = "Marketing"
	DepartmentHR               Department = "HR"
	DepartmentQualityAssurance Department = "Quality Assurance"
	DepartmentHumanResources   Department = "Human Resources"
	DepartmentProduct          Department = "Product"
	DepartmentDesign           Department = "Design"
	DepartmentAnalytics        Department = "Analytics"
	DepartmentFinance          Department = "Finance"
	DepartmentContent          Department = "Content"
	DepartmentSupport          Department = "Support"
	DepartmentBusiness         Department = "Business"
)

type Status string

const (
	StatusCurrentEmployee Status = "Current Employee"
	StatusOldEmployee     Status = "Old Employee"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

var (
	designations = []Designation{
		DesignationManager, DesignationDeveloper, DesignationDesigner, DesignationHR,
		DesignationSoftwareEngineer, DesignationQAEngineer, DesignationDevOpsEngineer,
		DesignationHRSpecialist, DesignationHRManager, DesignationProductManager,
		DesignationUIUXDesigner, DesignationGraphicDesigner, DesignationDataAnalyst,
		DesignationMarketingExecutive, DesignationFinanceAnalyst, DesignationContentWriter,
		DesignationSupportEngineer, DesignationLeadDeveloper, DesignationBusinessAnalyst,
	}
	departments = []Department{
		DepartmentEngineering, DepartmentSales, DepartmentMarketing, DepartmentHR,
		DepartmentQualityAssurance, DepartmentHumanResources, DepartmentProduct,
		DepartmentDesign, DepartmentAnalytics, DepartmentFinance, DepartmentContent,
		DepartmentSupport, DepartmentBusiness,
	}
	statuses = []Status{StatusCurrentEmployee, StatusOldEmployee}
	roles    = []Role{RoleAdmin, RoleEmployee}
)

func Designations() []string { return toStrings(designations) }
func Departments() []string  { return toStrings(departments) }
func Statuses() []string     { return toStrings(statuses) }
func Roles() []string        { return toStrings(roles) }

func ParseDesignation(s string) (Designation, bool) { return parse(s, designations) }
func ParseDepartment(s string) (Department, bool)   { return parse(s, departments) }
func ParseStatus(s string) (Status, bool)           { return parse(s, statuses) }
func ParseRole(s string) (Role, bool)               { return parse(s, roles) }

// EnumFields carries raw enum candidates; nil means the field is absent.
type EnumFields struct {
	Designation *string
	Department  *string
	Status      *string
	Role        *string
}

// ValidateEnums checks every present field against its allowed set and
// reports all violations at once.
func ValidateEnums(fields EnumFields) error {
	var errs validator.ValidationErrors

	check := func(field string, value *string, allowed []string) {
		if value == nil || validator.IsInSlice(*value, allowed) {
			return
		}
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid %s %q. Allowed values: %s", field, *value, strings.Join(allowed, ", ")),
			Value:   *value,
			Allowed: allowed,
		})
	}

	check("designation", fields.Designation, Designations())
	check("department", fields.Department, Departments())
	check("status", fields.Status, Statuses())
	check("role", fields.Role, Roles())

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parse[T ~string](s string, allowed []T) (T, bool) {
	for _, v := range allowed {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
