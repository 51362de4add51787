package console

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields under their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "ltefield":
		return "must not exceed " + fe.Param()
	}
	return "is invalid"
}

// HotelForm is the hotel creation form
type HotelForm struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Address     string    `json:"address" validate:"required,max=255"`
	Description string    `json:"description"`
	Star        int       `json:"star" validate:"omitempty,min=1,max=5"`
	OpeningDate time.Time `json:"openingDate"`
	TagIDs      []uint    `json:"tagIds"`
}

func (f HotelForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
	err := validateStruct(f)
	verr, ok := err.(*ValidationError)
	if err != nil && !ok {
		return err
	}
	if verr == nil {
		verr = &ValidationError{}
	}
	if f.OpeningDate.IsZero() {
		verr.add("openingDate", "is required")
	}
	return verr.orNil()
}

func (f HotelForm) payload() *MultipartPayload {
	m := &MultipartPayload{}
	m.Add("name", strings.TrimSpace(f.Name))
	m.Add("address", strings.TrimSpace(f.Address))
	m.AddOptional("description", f.Description)
	if f.Star != 0 {
		m.Add("star", strconv.Itoa(f.Star))
	}
	m.Add("openingDate", f.OpeningDate.Format(DateLayout))
	m.AddIDs("tagIds", f.TagIDs)
	return m
}

// RoomForm is the room type creation form
type RoomForm struct {
	Type         string   `json:"type" validate:"required,max=100"`
	Area         float64  `json:"area" validate:"gt=0"`
	BedType      string   `json:"bedType" validate:"max=50"`
	MaxOccupancy int      `json:"maxOccupancy" validate:"gt=0"`
	Price        float64  `json:"price" validate:"gte=0"`
	TotalRooms   int      `json:"totalRooms" validate:"gte=0"`
	Available    int      `json:"available" validate:"gte=0,ltefield=TotalRooms"`
	Amenities    []string `json:"amenities"`
}

func (f RoomForm) Validate() error {
	f.Type = strings.TrimSpace(f.Type)
	return validateStruct(f)
}

func (f RoomForm) payload() *MultipartPayload {
	m := &MultipartPayload{}
	m.Add("type", strings.TrimSpace(f.Type))
	m.Add("area", strconv.FormatFloat(f.Area, 'f', -1, 64))
	m.AddOptional("bedType", f.BedType)
	m.Add("maxOccupancy", strconv.Itoa(f.MaxOccupancy))
	m.Add("price", strconv.FormatFloat(f.Price, 'f', -1, 64))
	m.Add("totalRooms", strconv.Itoa(f.TotalRooms))
	m.Add("available", strconv.Itoa(f.Available))
	m.AddRepeated("amenities", f.Amenities)
	return m
}

// checkRoomUpdate applies the room rules to the fields present in p
func checkRoomUpdate(p *PartialUpdate) error {
	verr := &ValidationError{}
	num := func(field string) (float64, bool) {
		v, ok := p.Get(field)
		if !ok {
			return 0, false
		}
		return toFloat(v)
	}
	if v, ok := num("area"); ok && v <= 0 {
		verr.add("area", "must be greater than 0")
	}
	if v, ok := num("maxOccupancy"); ok && v <= 0 {
		verr.add("maxOccupancy", "must be greater than 0")
	}
	if v, ok := num("price"); ok && v < 0 {
		verr.add("price", "must be at least 0")
	}
	total, hasTotal := num("totalRooms")
	avail, hasAvail := num("available")
	if hasAvail && avail < 0 {
		verr.add("available", "must be at least 0")
	}
	if hasTotal && hasAvail && avail > total {
		verr.add("available", "must not exceed totalRooms")
	}
	return verr.orNil()
}

func checkHotelUpdate(p *PartialUpdate) error {
	verr := &ValidationError{}
	if v, ok := p.Get("star"); ok {
		if star, ok := toFloat(v); !ok || star < 1 || star > 5 {
			verr.add("star", "must be between 1 and 5")
		}
	}
	for _, field := range []string{"name", "address"} {
		if v, ok := p.Get(field); ok {
			if s, isStr := deref(v).(string); isStr && strings.TrimSpace(s) == "" {
				verr.add(field, "is required")
			}
		}
	}
	return verr.orNil()
}

func deref(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
