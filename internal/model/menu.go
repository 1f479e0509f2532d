package model

// MenuItem is one entry of a restaurant menu. ID is assigned by the store.
type MenuItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Ratings     float64 `json:"ratings"`
	Discounts   float64 `json:"discounts"`
	ImageLink   string  `json:"imageLink"`
}

// MenuItemDraft holds the fields of a menu item that has not been created yet.
type MenuItemDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Ratings     float64 `json:"ratings"`
	Discounts   float64 `json:"discounts"`
	ImageLink   string  `json:"imageLink"`
}

// Menu item field names accepted by SetField.
const (
	MenuFieldName        = "name"
	MenuFieldDescription = "description"
	MenuFieldPrice       = "price"
	MenuFieldRatings     = "ratings"
	MenuFieldDiscounts   = "discounts"
	MenuFieldImageLink   = "imageLink"
)

// Ready reports whether the draft satisfies the create preconditions:
// non-empty name and description and a positive price. Whitespace counts as text.
func (d MenuItemDraft) Ready() bool {
	return d.Name != "" && d.Description != "" && d.Price > 0
}

// Item converts the draft to a menu item without an ID.
func (d MenuItemDraft) Item() MenuItem {
	return MenuItem{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Ratings:     d.Ratings,
		Discounts:   d.Discounts,
		ImageLink:   d.ImageLink,
	}
}

// SetField assigns value to the named draft field.
func (d *MenuItemDraft) SetField(field string, value any) error {
	item := d.Item()
	if err := item.SetField(field, value); err != nil {
		return err
	}
	*d = MenuItemDraft{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Ratings:     item.Ratings,
		Discounts:   item.Discounts,
		ImageLink:   item.ImageLink,
	}
	return nil
}

// SetField assigns value to the named item field. The ID is not settable.
func (m *MenuItem) SetField(field string, value any) error {
	var num *float64
	var str *string
	switch field {
	case MenuFieldName:
		str = &m.Name
	case MenuFieldDescription:
		str = &m.Description
	case MenuFieldImageLink:
		str = &m.ImageLink
	case MenuFieldPrice:
		num = &m.Price
	case MenuFieldRatings:
		num = &m.Ratings
	case MenuFieldDiscounts:
		num = &m.Discounts
	default:
		return unknownField(field)
	}

	if num != nil {
		f, err := asNumber(field, value)
		if err != nil {
			return err
		}
		*num = f
		return nil
	}

	s, err := asString(field, value)
	if err != nil {
		return err
	}
	*str = s
	return nil
}
