package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// Button labels.
const (
	ButtonAssistant = "🤖 AI Maslahatchi"
	ButtonCatalog   = "📱 Katalog"
	ButtonCart      = "🛒 Savatcha"
	ButtonDetails   = "👁 Batafsil ko'rish"
	ButtonOpenAll   = "📱 Katalogni ochish"
)

const (
	defaultFirstName = "hurmatli mijoz"

	welcomeFormat = `🛍 Assalomu alaykum, %s!

PaketShop AI Sotuvchi botiga xush kelibsiz!

Men sizga kerakli mahsulotni topishda yordam beraman. Shunchaki menga nima kerakligini yozing, masalan:
• "Menga yaxshi telefon kerak, 5 million gacha"
• "Eng arzon noutbuklar"
• "Gaming mouse"

Yoki quyidagi tugmalardan foydalaning:`

	assistantPrompt = "Menga nima kerakligini yozing, men sizga eng mos mahsulotlarni topib beraman! 🔍"
	openAllText     = "📱 Barcha tavsiyalarni ko'rish uchun:"
	apologyText     = "Kechirasiz, xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring yoki katalogdan foydalaning."
	orderFormat     = "✅ Buyurtmangiz qabul qilindi!\n\nBuyurtma raqami: #%s\n\nTez orada operatorlarimiz siz bilan bog'lanadi."
	productFormat   = "📦 *%s*\n\n💰 Narx: %s UZS\n\n%s"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func welcomeText(firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		firstName = defaultFirstName
	}
	return fmt.Sprintf(welcomeFormat, firstName)
}

func orderConfirmationText(orderID string) string {
	return fmt.Sprintf(orderFormat, orderID)
}

// productCaption renders a product card in legacy Markdown.
func productCaption(p model.Product) string {
	return fmt.Sprintf(productFormat,
		markdownEscaper.Replace(p.Name),
		p.Price,
		markdownEscaper.Replace(p.ShortDescription),
	)
}

// keyboards builds the reply markups pointing at the Mini App.
type keyboards struct {
	webAppURL string
}

func (k keyboards) withQuery(key, value string) string {
	sep := "?"
	if strings.Contains(k.webAppURL, "?") {
		sep = "&"
	}
	return k.webAppURL + sep + key + "=" + value
}

func (k keyboards) main(withCart bool) *models.ReplyKeyboardMarkup {
	rows := [][]models.KeyboardButton{
		{
			{Text: ButtonAssistant},
			{Text: ButtonCatalog, WebApp: &models.WebAppInfo{URL: k.webAppURL}},
		},
	}
	if withCart {
		rows = append(rows, []models.KeyboardButton{
			{Text: ButtonCart, WebApp: &models.WebAppInfo{URL: k.withQuery("tab", "cart")}},
		})
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

func (k keyboards) product(id int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: ButtonDetails, WebApp: &models.WebAppInfo{URL: k.withQuery("product", strconv.FormatInt(id, 10))}}},
		},
	}
}

func (k keyboards) catalog() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: ButtonOpenAll, WebApp: &models.WebAppInfo{URL: k.webAppURL}}},
		},
	}
}
