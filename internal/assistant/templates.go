package assistant

const WelcomeMessage = "Hello! I'm your personal shopping assistant. I'm here to help you find amazing products with great reviews and excellent value! What can I help you find today?"

const ApologyReply = "I apologize, but I'm having trouble processing your request right now. Please try again, and I'll do my best to help you find great products!"

var greetings = []string{
	"Hello! I'm your personal shopping assistant. I'm here to help you find amazing products with great reviews and excellent value!",
	"Hi there! Welcome to your personalized shopping experience. I can help you discover the best products that match your needs and budget!",
	"Good day! I'm excited to help you find the perfect products today. Let me show you some popular items that customers absolutely love!",
}

// Greetings returns a copy of the greeting variants.
func Greetings() []string {
	return append([]string(nil), greetings...)
}

const helpReply = "I'm here to make your shopping experience amazing! I can help you:\n\n" +
	"• Find products by describing what you need\n" +
	"• Browse different categories\n" +
	"• Get recommendations based on customer reviews\n" +
	"• Find products within your budget\n" +
	"• Guide you through checkout\n\n" +
	"Just tell me what you're looking for, and I'll show you the best options!"

const (
	searchReplyFormat   = "I found some great products for \"%s\". Here are my top recommendations:"
	categoryReplyFormat = "Here are some excellent %s products that customers love:"
	priceReply          = "I found some amazing products within your budget. These are highly rated by customers:"
	generalReply        = "I understand you're interested in shopping! Let me show you some highly-rated products that might interest you. These items have excellent customer reviews and great value:"
)

const reasonTemplateCount = 5

var (
	NoResultActions = []string{
		"Try a different search term",
		"Browse categories",
		"Ask for help finding specific items",
	}
	ResultActions = []string{
		"Add to cart",
		"View more details",
		"Compare similar products",
		"Ask about other categories",
	}
)

const (
	ConfidenceWithResults = 0.9
	ConfidenceNoResults   = 0.3
)
