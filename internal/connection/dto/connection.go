package dto

type StatusResponse struct {
	Connected bool   `json:"connected"`
	Email     string `json:"email,omitempty"`
	Error     string `json:"error,omitempty"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

type IMAPConnectRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
