package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// promptProduct is the shape of a candidate as shown to the model.
type promptProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Categories  string `json:"categories"`
}

const promptTemplate = `Sen %s do'konining professional savdo maslahatchisisan. Mijozlarga mahsulot tanlashda yordam berasan.

QOIDALAR:
1. FAQAT quyidagi JSON ro'yxatidagi mahsulotlarni tavsiya qil
2. Agar mijoz so'rovi bo'yicha mos mahsulot yo'q bo'lsa, "TOPILMADI" deb javob ber
3. Javobingni quyidagi formatda ber:

MAHSULOT ID LARI: [123, 456, 789]
XABAR: [Mijozga do'stona xabar]

MAVJUD MAHSULOTLAR:
%s

MISOLLAR:

Mijoz so'rovi: "Menga yaxshi telefon kerak, 5 milliongacha"
Javob:
MAHSULOT ID LARI: [101, 205]
XABAR: Sizga 5 million so'm gacha bo'lgan eng yaxshi telefonlarni tavsiya qilaman. Samsung va Xiaomi modellarini ko'rib chiqishingizni maslahat beraman.

Mijoz so'rovi: "Menga olma kerak"
Javob:
MAHSULOT ID LARI: []
XABAR: Kechirasiz, bizda oziq-ovqat mahsulotlari yo'q. Sizga boshqa mahsulot kerakmi?`

// Candidates returns the in-stock subset of products, preserving order.
func Candidates(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.InStock() {
			out = append(out, p)
		}
	}
	return out
}

// BuildPrompt renders the instruction payload. The candidates are the only
// admissible recommendations; the user's query always comes last.
func BuildPrompt(storeName string, candidates []model.Product, query string) (string, error) {
	items := make([]promptProduct, len(candidates))
	for i, p := range candidates {
		description := p.ShortDescription
		if description == "" {
			description = p.Description
		}
		names := make([]string, len(p.Categories))
		for j, c := range p.Categories {
			names[j] = c.Name
		}
		items[i] = promptProduct{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: description,
			Categories:  strings.Join(names, ", "),
		}
	}

	catalog, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding candidates: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate, storeName, catalog)
	fmt.Fprintf(&b, "\n\nMijoz so'rovi: %q\n\nJavob:", query)
	return b.String(), nil
}
