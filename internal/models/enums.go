package models

// Role is a user's function within the plant.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleDepartmentHead Role = "Chef de Département"
	RoleEngineer       Role = "Ingénieur"
	RoleTechnician     Role = "Technicien"
)

// Department is one of the plant's five fixed departments.
type Department string

const (
	DepartmentProduction  Department = "Production"
	DepartmentMaintenance Department = "Maintenance"
	DepartmentQuality     Department = "Qualité & Contrôle"
	DepartmentTechnology  Department = "Technologies Opérationnelles"
	DepartmentAdminHR     Department = "Administration & RH"
)

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "Haute"
	PriorityNormal Priority = "Normale"
	PriorityLow    Priority = "Basse"
)

// Status of a task. StatusDelayed is never stored; it is derived at read
// time from the due date (see Task.EffectiveStatus).
type Status string

const (
	StatusTodo              Status = "À faire"
	StatusInProgress        Status = "En cours"
	StatusPendingValidation Status = "En attente de validation"
	StatusDone              Status = "Terminée"
	StatusDelayed           Status = "En retard"
)

// Category of a task.
type Category string

const (
	CategoryMaintenance Category = "Maintenance"
	CategoryProduction  Category = "Production"
	CategoryQuality     Category = "Qualité"
	CategorySecurity    Category = "Sécurité"
	CategoryOther       Category = "Autre"
)

// Valid reports whether the department is one of the fixed values.
func (d Department) Valid() bool {
	switch d {
	case DepartmentProduction, DepartmentMaintenance, DepartmentQuality,
		DepartmentTechnology, DepartmentAdminHR:
		return true
	}
	return false
}

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Valid reports whether the status is a known value, stored or derived.
func (s Status) Valid() bool {
	return s == StatusDelayed || s.Storable()
}

// Storable reports whether the status may be written to the database.
// StatusDelayed is derive-only.
func (s Status) Storable() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusPendingValidation, StatusDone:
		return true
	}
	return false
}

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryMaintenance, CategoryProduction, CategoryQuality,
		CategorySecurity, CategoryOther:
		return true
	}
	return false
}

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDepartmentHead, RoleEngineer, RoleTechnician:
		return true
	}
	return false
}
