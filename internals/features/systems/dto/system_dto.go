package dto

// SystemItem is the sidebar entry: {id, topic}.
type SystemItem struct {
	ID    int64  `json:"id"`
	Topic string `json:"topic"`
}
