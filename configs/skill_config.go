package config

var SkillCategories = []string{
	"Programming", "Music", "Languages", "Art", "Sports", "Cooking",
	"Photography", "Writing", "Business", "Science", "Design", "Other",
}

var SkillLevels = []string{"Beginner", "Intermediate", "Advanced"}

const (
	MinSkillRate = 0.1
	MaxSkillRate = 1000.0
)

// User-facing validation messages shared by the skill and booking workflows.
const (
	MsgRequiredFields     = "All fields are required."
	MsgInvalidRate        = "Rate must be a positive number."
	MsgInvalidSlot        = "Each slot must have a valid time."
	MsgWalletNotConnected = "Please connect your wallet and ensure it is active."
	MsgInvalidAddress     = "Invalid receiver address."
	MsgMinOneSlot         = "Add at least one time slot."
)

type DefaultSlot struct {
	Time     string `json:"time"`
	MeetLink string `json:"meet_link"`
}

var DefaultTimeSlots = []DefaultSlot{
	{Time: "10:00 AM", MeetLink: "https://meet.google.com/new-1010-session"},
	{Time: "12:00 PM", MeetLink: "https://meet.google.com/new-1200-session"},
	{Time: "2:00 PM", MeetLink: "https://meet.google.com/new-1400-session"},
	{Time: "4:00 PM", MeetLink: "https://meet.google.com/new-1600-session"},
}

func IsSkillCategory(category string) bool {
	for _, c := range SkillCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsSkillLevel(level string) bool {
	for _, l := range SkillLevels {
		if l == level {
			return true
		}
	}
	return false
}
