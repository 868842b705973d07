package model

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTicketRequest struct {
	LocationID  string `json:"location_id"`
	MachineID   string `json:"machine_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

type AssignTicketRequest struct {
	TechnicianID string `json:"technician_id"`
}

type CreateCommentRequest struct {
	Comment    string `json:"comment"`
	IsInternal bool   `json:"is_internal"`
}

type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type CreateMachineRequest struct {
	Code       string `json:"code"`
	LocationID string `json:"location_id"`
	Model      string `json:"model"`
}
