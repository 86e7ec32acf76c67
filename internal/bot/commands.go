package bot

import (
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Command identifiers recognized in inbound text.
type command int

const (
	commandGreeting command = iota
	commandComplaint
	commandStatus
	commandHelp
	commandLookup
	commandFreeText
)

// parseCommand routes lowered, trimmed text to a command.
func parseCommand(text string) command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "hello", "hi", "hey", "start":
		return commandGreeting
	case "complaint":
		return commandComplaint
	case "status":
		return commandStatus
	case "help":
		return commandHelp
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "cmp") {
		return commandLookup
	}
	return commandFreeText
}

const greetingReply = `👋 *Welcome to the Complaint Management System!*

I can help you file complaints about:

🗑️ *Garbage* collection issues
🕳️ *Potholes* on roads
💡 *Streetlight* problems

*Available Commands:*
• Type *complaint* to file a new complaint
• Type *status* to check complaint status
• Type *help* for more options

How can I assist you today?`

const complaintReply = `📝 *File a New Complaint*

Please provide the following information:

1️⃣ *Photo* of the issue (send an image)
2️⃣ *Location* (share your location)
3️⃣ *Description* (brief text about the problem)

I'll automatically:
✅ Categorize your complaint
✅ Generate a unique Complaint ID
✅ Track status updates

Send your photo first!`

const statusReply = `🔍 *Check Complaint Status*

Please reply with your *Complaint ID*

Format: CMPYYYYMMDDXXXX

Example: CMP202510041234`

const helpReply = `ℹ️ *Help Menu*

*Available Commands:*
• *hello* - Greet the bot
• *complaint* - File a new complaint
• *status* - Check complaint status
• *help* - Show this menu

*How to File a Complaint:*
1. Type "complaint"
2. Send a photo of the issue
3. Share your location
4. Add a brief description

Any other text files a complaint directly.`

const audioReply = "🎤 Audio messages are not supported yet."
const documentReply = "📄 Document messages are not supported yet."

func unsupportedReply(messageType string) string {
	return fmt.Sprintf("Sorry, %s messages are not supported.", messageType)
}

func lookupReply(complaint *domain.Complaint) string {
	return fmt.Sprintf(`📋 *Complaint Status*

🆔 Complaint ID: %s
⏳ Status: *%s*
📂 Category: %s
📅 Filed: %s

Type *help* for more options.`,
		complaint.ID,
		complaint.Status,
		complaint.Category,
		complaint.SubmittedAt.Format("2006-01-02"))
}

func lookupMissReply(id string) string {
	return fmt.Sprintf("❌ No complaint found with ID %s. Check the ID and try again, or type *help*.", id)
}

func registeredReply(id string) string {
	return fmt.Sprintf("✅ Complaint registered! ID: %s", id)
}

func imageReply(image *imageContent) string {
	caption := image.Caption
	if caption == "" {
		caption = "No caption"
	}
	return fmt.Sprintf(`✅ *Image Received!*

📸 Image ID: %s
📝 Caption: %s

*Next Steps:*
📍 Please share your *location*
💬 Add a brief *description* of the issue

Your complaint will be registered shortly!`, image.ID, caption)
}

func locationReply(location *locationContent) string {
	name := location.Name
	if name == "" {
		name = "Location captured"
	}
	return fmt.Sprintf(`✅ *Location Received!*

📍 *Coordinates:*
Latitude: %v
Longitude: %v

📌 *Location:* %s

*Almost done!*
Please send a brief *text description* of the issue to complete your complaint.`,
		location.Latitude, location.Longitude, name)
}
