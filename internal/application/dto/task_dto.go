package dto

// CreateTaskRequest entrada para crear una tarea.
type CreateTaskRequest struct {
	Text           string `json:"texto" validate:"required"`
	Responsible    string `json:"responsable"`
	Center         string `json:"centro"`
	Deadline       string `json:"plazo" validate:"omitempty,datetime=2006-01-02"`
	Observation    string `json:"observacion"`
	Resources      string `json:"recursos"`
	AssignedUserID *int   `json:"usuario_asignado_id"`
}

// UpdateTaskRequest edición parcial: solo se aplican los campos presentes.
type UpdateTaskRequest struct {
	Text           *string `json:"texto"`
	Responsible    *string `json:"responsable"`
	Center         *string `json:"centro"`
	Deadline       *string `json:"plazo"`
	Observation    *string `json:"observacion"`
	Resources      *string `json:"recursos"`
	AssignedUserID *int    `json:"usuario_asignado_id"` // 0 = desasignar
}

// ChangeStatusRequest nueva situación (canónica o alias compacto).
type ChangeStatusRequest struct {
	Status string `json:"situacion" validate:"required"`
}

// AttachDocumentRequest nombre del archivo ya subido por el servicio de archivos.
type AttachDocumentRequest struct {
	Filename string `json:"nombre" validate:"required"`
}
