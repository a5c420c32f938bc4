package types

// ShareRequest is the body of POST /api/v1/shares
type ShareRequest struct {
	URL       string `json:"url" binding:"required"`
	Caption   string `json:"caption,omitempty"`
	AudioPath string `json:"audio_path,omitempty"`
}
