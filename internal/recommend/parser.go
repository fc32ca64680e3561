package recommend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// Messages shown when the model gives nothing usable.
const (
	MessageUnavailable   = "AI xizmati hozirda ishlamayapti. Iltimos, katalogdan qo'lda tanlang."
	MessageProviderError = "AI hozircha javob bera olmadi. Iltimos, standart katalogdan foydalaning."
	MessageNotFound      = "Kechirasiz, sizning so'rovingiz bo'yicha mahsulot topilmadi. Iltimos, katalogdan ko'rib chiqing."
	MessageFound         = "Mahsulotlar topildi."
	messageCountFormat   = "Sizga %d ta mahsulot tavsiya qilaman. Pastdagi tugmalarni bosib batafsil ko'ring."
)

var (
	idsTag     = regexp.MustCompile(`(?i)(MAHSULOT ID LARI|PRODUCT IDS):`)
	messageTag = regexp.MustCompile(`(?i)(XABAR|MESSAGE):`)
	bracket    = regexp.MustCompile(`\[([^\]]*)\]`)

	idsLine         = regexp.MustCompile(`(?i)(MAHSULOT ID LARI|PRODUCT IDS):[^\n]*\n?`)
	bracketFragment = regexp.MustCompile(`\[[^\]\n]*\]`)

	notFoundMarkers = []string{"TOPILMADI", "NOT FOUND"}
)

type parseState int

const (
	stateScanning parseState = iota
	stateIDs
	stateMessage
	stateNotFound
	stateDone
)

// replyParser walks a model reply one line at a time.
type replyParser struct {
	state   parseState
	allowed map[int64]struct{}
	ids     []int64
	message string
}

// ParseReply extracts a recommendation from free model text. It never fails:
// every input yields a non-empty message, ids restricted to the candidates,
// and NotFound set exactly when no id survived.
func ParseReply(text string, candidates []model.Product) model.Recommendation {
	p := &replyParser{allowed: idSet(candidates)}

	for _, line := range strings.Split(text, "\n") {
		p.feed(line)
		if p.state == stateNotFound {
			return p.notFound()
		}
	}
	p.state = stateDone

	return p.result(text)
}

func (p *replyParser) feed(line string) {
	if loc := idsTag.FindStringIndex(line); loc != nil {
		if m := bracket.FindStringSubmatch(line[loc[1]:]); m != nil {
			p.ids = filterIDs(splitIDs(m[1]), p.allowed)
		}
		p.state = stateIDs
		return
	}
	if loc := messageTag.FindStringIndex(line); loc != nil {
		p.message = strings.TrimSpace(line[loc[1]:])
		p.state = stateMessage
		return
	}
	for _, marker := range notFoundMarkers {
		if strings.Contains(line, marker) {
			p.state = stateNotFound
			return
		}
	}
}

func (p *replyParser) notFound() model.Recommendation {
	message := p.message
	if message == "" {
		message = MessageNotFound
	}
	return model.Recommendation{ProductIDs: []int64{}, Message: message, NotFound: true}
}

func (p *replyParser) result(raw string) model.Recommendation {
	ids := p.ids
	if ids == nil {
		ids = []int64{}
	}

	message := p.message
	if message == "" && raw != "" {
		message = StripIDMarkup(raw)
	}
	if message == "" && len(ids) > 0 {
		message = fmt.Sprintf(messageCountFormat, len(ids))
	}
	if message == "" {
		message = MessageFound
	}

	return model.Recommendation{ProductIDs: ids, Message: message, NotFound: len(ids) == 0}
}

// StripIDMarkup removes id-list lines and bracket fragments from raw text.
func StripIDMarkup(raw string) string {
	s := idsLine.ReplaceAllString(raw, "")
	s = bracketFragment.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// FilterCandidateIDs keeps the ids present among candidates, in input order,
// dropping repeats.
func FilterCandidateIDs(ids []int64, candidates []model.Product) []int64 {
	return filterIDs(ids, idSet(candidates))
}

func filterIDs(ids []int64, allowed map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := allowed[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func splitIDs(list string) []int64 {
	var ids []int64
	for _, part := range strings.Split(list, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func idSet(candidates []model.Product) map[int64]struct{} {
	set := make(map[int64]struct{}, len(candidates))
	for _, c := range candidates {
		set[c.ID] = struct{}{}
	}
	return set
}
