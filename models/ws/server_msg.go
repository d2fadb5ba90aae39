package wsmodels

const (
	EventSigningRequest      = "signingRequest"
	EventRequestStatusUpdate = "requestStatusUpdate"
	EventSigningFailed       = "signingFailed"
)

type ServerMessage struct {
	Event string      `json:"event"` // код события
	Time  string      `json:"time"`  // время события
	Data  interface{} `json:"data"`
}

type SigningProgress struct {
	RequestID string `json:"requestId"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
}

type RequestStatusUpdate struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

type SigningFailed struct {
	RequestID string `json:"requestId"`
	JobID     string `json:"jobId"`
	Error     string `json:"error"`
}
