package inventory

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds item and category names.
const MaxNameLength = 120

// references looks up the reference collections items point to.
type references interface {
	HasCategory(name string) bool
	HasSupplier(id string) bool
}

func knownCategory(refs references) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		name, _ := v.(string)
		if name == "" || refs.HasCategory(name) {
			return nil
		}
		return errors.New("unknown category")
	})
}

func knownSupplier(refs references) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		id, _ := v.(string)
		if id == "" || refs.HasSupplier(id) {
			return nil
		}
		return errors.New("unknown supplier")
	})
}

// ValidateInput checks a create payload against refs.
func ValidateInput(in ItemInput, refs references) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&in.Category, validation.Required, knownCategory(refs)),
		validation.Field(&in.Unit, validation.Required, validation.In(UnitPieces)),
		validation.Field(&in.Stock, validation.Min(0)),
		validation.Field(&in.MinimumStock, validation.Min(0)),
		validation.Field(&in.SupplierID, validation.Required, knownSupplier(refs)),
	)
	if err != nil {
		return invalid(err, CodeInvalidItem, "invalid item payload")
	}
	return nil
}

// ValidatePatch checks the fields set on a partial update.
func ValidatePatch(p ItemPatch, refs references) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, MaxNameLength)),
		validation.Field(&p.Category, validation.NilOrNotEmpty, knownCategory(refs)),
		validation.Field(&p.Unit, validation.NilOrNotEmpty, validation.In(UnitPieces)),
		validation.Field(&p.Stock, validation.Min(0)),
		validation.Field(&p.MinimumStock, validation.Min(0)),
		validation.Field(&p.SupplierID, validation.NilOrNotEmpty, knownSupplier(refs)),
	)
	if err != nil {
		return invalid(err, CodeInvalidItem, "invalid item update")
	}
	return nil
}

// ValidateCategoryName checks a new category name.
func ValidateCategoryName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Length(1, MaxNameLength),
	)
	if err != nil {
		return invalid(validation.Errors{"name": err}, CodeInvalidCategory, "invalid category")
	}
	return nil
}
