package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"household-shopping/internal/catalog"
	"household-shopping/internal/metrics"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

const checkPrefix = "check|"

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape makes user text safe inside legacy Markdown messages.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func productName(it shopping.DetailedItem) string {
	if it.Product == nil {
		return fmt.Sprintf("Unknown product (%s)", it.ProductID)
	}
	return it.Product.Name
}

func unitLabel(u catalog.Unit) string {
	if u == catalog.UnitPiece {
		return "pcs"
	}
	return string(u)
}

func formatQuantity(it shopping.DetailedItem) string {
	q := strconv.FormatFloat(it.Quantity, 'f', -1, 64)
	if it.Product == nil {
		return q
	}
	return q + " " + unitLabel(it.Product.Unit)
}

// FormatChecklist renders a list as a Markdown checklist.
func FormatChecklist(d *shopping.DetailedList) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s* (%s)\n", escape(d.List.Name), d.List.Status))
	sb.WriteString(fmt.Sprintf("%d/%d checked\n\n", d.List.CheckedCount(), len(d.List.Items)))

	if len(d.Items) == 0 {
		sb.WriteString("_No items_\n")
	}
	for _, it := range d.Items {
		box := "⬜"
		if it.Checked {
			box = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s\n", box, escape(productName(it)), formatQuantity(it)))
		if it.Notes != "" {
			sb.WriteString(fmt.Sprintf("    _%s_\n", escape(it.Notes)))
		}
	}
	return sb.String()
}

// ChecklistKeyboard has one toggle button per item.
func ChecklistKeyboard(d *shopping.DetailedList) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(d.Items))
	for _, it := range d.Items {
		box := "⬜"
		if it.Checked {
			box = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(box+" "+productName(it), checkPrefix+it.ProductID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FormatLists renders the user's lists with their ids.
func FormatLists(lists []shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString("📋 *Your lists*\n\n")
	if len(lists) == 0 {
		sb.WriteString("_No lists yet_\n")
	}
	for _, l := range lists {
		sb.WriteString(fmt.Sprintf("• *%s* (%s, %d/%d checked)\n", escape(l.Name), l.Status, l.CheckedCount(), len(l.Items)))
		sb.WriteString(fmt.Sprintf("  `%s`\n", l.ID))
	}
	return sb.String()
}

// FormatTemplates renders the user's templates with their ids.
func FormatTemplates(list []templates.Template) string {
	var sb strings.Builder
	sb.WriteString("📚 *Your templates*\n\n")
	if len(list) == 0 {
		sb.WriteString("_No templates yet_\n")
	}
	for _, t := range list {
		sb.WriteString(fmt.Sprintf("• *%s* (%s, %d products)\n", escape(t.Name), t.Type, len(t.Products)))
		sb.WriteString(fmt.Sprintf("  `%s`\n", t.ID))
	}
	return sb.String()
}

// FormatMetricsReport renders the admin usage and health report.
func FormatMetricsReport(usage []metrics.DailyUsage, ops []metrics.OperationSummary, health metrics.Health) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent API Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d ops (%d errors, avg %.1fms)\n", d.Date, d.Total, d.Errors, d.AvgLatencyMS))
	}

	if len(ops) > 0 {
		sb.WriteString("\n🔥 *Top Operations*\n")
		for i, o := range ops {
			if i == 5 {
				break
			}
			sb.WriteString(fmt.Sprintf("• %s: %d\n", escape(o.Operation), o.Total))
		}
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Heap) / %dMB (Sys)\n", health.HeapMB, health.ReservedMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s\n", health.Database))
	return sb.String()
}

const helpText = `🛒 *Household Shopping*

/lists - your shopping lists
/templates - your templates
/ready <list id> - mark a draft list ready
/shop <list id> - start shopping a ready list
/current - show the list you are shopping
/done - finish shopping and complete the list
/stop - stop shopping without completing`
