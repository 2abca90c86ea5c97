package cli

import (
	"fmt"
	"strconv"
	"strings"

	"household-shopping/internal/catalog"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func renderProducts(products []catalog.Product) string {
	if len(products) == 0 {
		return "No products.\n"
	}
	var sb strings.Builder
	for _, p := range products {
		fmt.Fprintf(&sb, "%s  %s (%s)\n", p.ID, p.Name, p.Unit)
	}
	return sb.String()
}

func renderTemplates(list []templates.Template) string {
	if len(list) == 0 {
		return "No templates.\n"
	}
	var sb strings.Builder
	for _, t := range list {
		fmt.Fprintf(&sb, "%s  %s [%s] %d products\n", t.ID, t.Name, t.Type, len(t.Products))
	}
	return sb.String()
}

func renderTemplate(t *templates.Template) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] v%d\n", t.Name, t.Type, t.Version)
	if t.Description != "" {
		fmt.Fprintf(&sb, "%s\n", t.Description)
	}
	for _, e := range t.Products {
		fmt.Fprintf(&sb, "  %s x %s\n", e.ProductID, quantity(e.Quantity))
	}
	return sb.String()
}

func renderLists(lists []shopping.ShoppingList) string {
	if len(lists) == 0 {
		return "No lists.\n"
	}
	var sb strings.Builder
	for _, l := range lists {
		fmt.Fprintf(&sb, "%s  %s [%s] %d/%d checked\n", l.ID, l.Name, l.Status, l.CheckedCount(), len(l.Items))
	}
	return sb.String()
}

func renderList(l *shopping.ShoppingList) string {
	return fmt.Sprintf("%s  %s [%s] v%d, %d/%d checked\n", l.ID, l.Name, l.Status, l.Version, l.CheckedCount(), len(l.Items))
}

func renderDetailedList(d *shopping.DetailedList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %d/%d checked\n", d.List.Name, d.List.Status, d.List.CheckedCount(), len(d.List.Items))
	for _, it := range d.Items {
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		name := it.ProductID + " (removed)"
		amount := quantity(it.Quantity)
		if it.Product != nil {
			name = it.Product.Name
			amount += " " + string(it.Product.Unit)
		}
		fmt.Fprintf(&sb, "%s %s  %s", box, name, amount)
		if it.Notes != "" {
			fmt.Fprintf(&sb, "  (%s)", it.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// parseEntries reads repeated "productId=quantity" flags.
func parseEntries(values []string) ([]templates.Entry, error) {
	entries := make([]templates.Entry, 0, len(values))
	for _, v := range values {
		id, q, ok := strings.Cut(v, "=")
		if !ok {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid entry %q: want productId=quantity", v))
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity in %q", v))
		}
		entries = append(entries, templates.Entry{ProductID: strings.TrimSpace(id), Quantity: n})
	}
	return entries, nil
}
