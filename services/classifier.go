package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"agr-scraper/models"
	"agr-scraper/utils"
)

// CoffeeLabels are the reward catalog entries tracked in aggregate rather
// than row-by-row. Matching is by normalized substring; bucket keys keep the
// original casing.
var CoffeeLabels = []string{
	"(1064) GASEOSA + ALFAJOR",
	"(1063) CANJE CAFE + ALFAJOR",
	"(1062) CAFE CHICO PARA LLEVAR + 2 FACTURAS",
	"(1062) CAFE + FACTURA O ALFAJOR",
}

// Entities are the four canonical branches, in the order aggregates report
// them.
var Entities = []string{"Monteverde", "Tobago SA 1", "Grupo GEN", "Bettica SA"}

// DefaultEntity is attributed when no substring identifies the branch. The
// portal occasionally renders entity names this code does not recognize;
// those quantities land here.
const DefaultEntity = "Grupo GEN"

// KeySeparator joins the eight identity fields of a ledger key. Portal fields
// never contain it.
const KeySeparator = "|"

var (
	coffeeLabelsNorm = normalizeLabels(CoffeeLabels)

	// Accepts EGRESO (ES), EGRESS (EN), SALIDA/OUT/EXIT, etc.
	outflowPattern = regexp.MustCompile(`(EGRES|EGRESS|SALID|OUT|EXIT)`)
)

func normalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = utils.Normalize(l)
	}
	return out
}

// IsCoffee reports whether a reward name refers to one of the tracked coffee
// combos.
func IsCoffee(rewardName string) bool {
	return matchCoffeeLabel(rewardName) != ""
}

// matchCoffeeLabel returns the original-casing label embedded in the reward
// name, or "" when none matches. First label in list order wins.
func matchCoffeeLabel(rewardName string) string {
	r := utils.Normalize(rewardName)
	for i, label := range coffeeLabelsNorm {
		if strings.Contains(r, label) {
			return CoffeeLabels[i]
		}
	}
	return ""
}

// IsOutflow reports whether a movement type describes stock leaving a
// deposit, across the portal's language variants.
func IsOutflow(movementType string) bool {
	return outflowPattern.MatchString(utils.Normalize(movementType))
}

// EntityLabel maps free-form portal entity text to one of the four canonical
// labels via ordered substring checks. Unrecognized text falls back to
// DefaultEntity.
func EntityLabel(entity string) string {
	up := utils.Normalize(entity)
	switch {
	case strings.Contains(up, "MONTEVERDE"):
		return "Monteverde"
	case strings.Contains(up, "TOBAGO"):
		return "Tobago SA 1"
	case strings.Contains(up, "BETTICA"):
		return "Bettica SA"
	default:
		return DefaultEntity
	}
}

// DeriveKey builds the ledger's composite identity from the eight raw row
// fields in fixed order. Identical rows always derive identical keys; any
// changed field (including quantity) derives a new key.
func DeriveKey(m models.RawMovement) string {
	return strings.Join([]string{
		m.Date,
		m.Entity,
		m.MovementType,
		m.DocumentRef,
		m.RewardName,
		m.SourceDeposit,
		m.DestDeposit,
		strconv.Itoa(m.Quantity),
	}, KeySeparator)
}

// ParsePortalDate parses "DD/MM/YYYY" with an optional " HH:MM:SS" suffix
// into a local-time timestamp. Returns nil on malformed date components; a
// malformed time part degrades to midnight.
func ParsePortalDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.SplitN(s, " ", 2)
	dmy := strings.Split(parts[0], "/")
	if len(dmy) != 3 {
		return nil
	}
	dd, errD := strconv.Atoi(dmy[0])
	mm, errM := strconv.Atoi(dmy[1])
	yyyy, errY := strconv.Atoi(dmy[2])
	if errD != nil || errM != nil || errY != nil || dd == 0 || mm == 0 || yyyy == 0 {
		return nil
	}

	var hh, mi, ss int
	if len(parts) == 2 {
		hms := strings.Split(parts[1], ":")
		if len(hms) > 0 {
			hh, _ = strconv.Atoi(hms[0])
		}
		if len(hms) > 1 {
			mi, _ = strconv.Atoi(hms[1])
		}
		if len(hms) > 2 {
			ss, _ = strconv.Atoi(hms[2])
		}
	}

	t := time.Date(yyyy, time.Month(mm), dd, hh, mi, ss, 0, time.Local)
	return &t
}

// MovementBatch is everything one classification pass produces: the live
// coffee aggregates, the live other-item rows, and the ledger entries for
// every scraped row (duplicate derived keys collapsed to the last-seen
// value).
type MovementBatch struct {
	Coffee []models.CoffeeAggregate
	Other  []models.OtherItem
	Ledger []models.LedgerEntry
}

// Classifier partitions scraped movement rows into coffee aggregates and
// other items, and derives ledger entries for idempotent re-ingestion.
type Classifier struct {
	logger *utils.Logger
}

// NewClassifier creates a new Classifier.
func NewClassifier(logger *utils.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// ClassifyAndBucket processes one scrape's rows. Coffee rows that are not
// outflow-typed are excluded from the aggregates entirely but still appear in
// the ledger. Aggregates come out in canonical label order with all four
// entities present, zero-filled.
func (c *Classifier) ClassifyAndBucket(rows []models.RawMovement, now time.Time, periodMonth string) MovementBatch {
	buckets := make(map[string]map[string]int)
	var other []models.OtherItem
	ledgerByID := make(map[string]models.LedgerEntry)
	var ledgerOrder []string

	coffeeRows, outflowRows := 0, 0
	for _, m := range rows {
		coffee := IsCoffee(m.RewardName)
		if coffee {
			coffeeRows++
			if IsOutflow(m.MovementType) {
				outflowRows++
				label := matchCoffeeLabel(m.RewardName)
				counts := buckets[label]
				if counts == nil {
					counts = make(map[string]int, len(Entities))
					buckets[label] = counts
				}
				counts[EntityLabel(m.Entity)] += m.Quantity
			}
		} else {
			other = append(other, models.OtherItem{
				Date:          m.Date,
				Entity:        m.Entity,
				MovementType:  m.MovementType,
				DocumentRef:   m.DocumentRef,
				RewardName:    m.RewardName,
				SourceDeposit: m.SourceDeposit,
				DestDeposit:   m.DestDeposit,
				Quantity:      m.Quantity,
				CapturedAt:    now,
			})
		}

		id := DeriveKey(m)
		if _, seen := ledgerByID[id]; !seen {
			ledgerOrder = append(ledgerOrder, id)
		}
		ledgerByID[id] = models.LedgerEntry{
			ID:            id,
			DateRaw:       m.Date,
			Date:          ParsePortalDate(m.Date),
			Entity:        m.Entity,
			MovementType:  m.MovementType,
			DocumentRef:   m.DocumentRef,
			RewardName:    m.RewardName,
			SourceDeposit: m.SourceDeposit,
			DestDeposit:   m.DestDeposit,
			Quantity:      m.Quantity,
			IsCoffeeCombo: coffee,
			PeriodMonth:   periodMonth,
			CapturedAt:    now,
		}
	}

	coffee := make([]models.CoffeeAggregate, 0, len(buckets))
	for _, label := range CoffeeLabels {
		counts, ok := buckets[label]
		if !ok {
			continue
		}
		outflows := make([]models.EntityOutflow, 0, len(Entities))
		for _, ent := range Entities {
			outflows = append(outflows, models.EntityOutflow{Entity: ent, Quantity: counts[ent]})
		}
		coffee = append(coffee, models.CoffeeAggregate{
			RewardType: label,
			Outflows:   outflows,
			CapturedAt: now,
		})
	}

	ledger := make([]models.LedgerEntry, 0, len(ledgerOrder))
	for _, id := range ledgerOrder {
		ledger = append(ledger, ledgerByID[id])
	}

	c.logger.Info("Classified %d rows: %d coffee (%d outflow) -> %d aggregates, %d other items",
		len(rows), coffeeRows, outflowRows, len(coffee), len(other))
	return MovementBatch{Coffee: coffee, Other: other, Ledger: ledger}
}
