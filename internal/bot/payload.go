package bot

// Provider-shaped webhook payload for WhatsApp Business accounts. Only
// the fields the bot consumes are modeled.

type webhookPayload struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID      string   `json:"id"`
	Changes []change `json:"changes"`
}

type change struct {
	Field string      `json:"field"`
	Value changeValue `json:"value"`
}

type changeValue struct {
	Messages []inboundMessage `json:"messages"`
	Statuses []deliveryStatus `json:"statuses"`
}

type inboundMessage struct {
	From      string           `json:"from"`
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Type      string           `json:"type"`
	Text      *textContent     `json:"text,omitempty"`
	Image     *imageContent    `json:"image,omitempty"`
	Location  *locationContent `json:"location,omitempty"`
}

type textContent struct {
	Body string `json:"body"`
}

type imageContent struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	MimeType string `json:"mime_type"`
}

type locationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
}

type deliveryStatus struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
}
