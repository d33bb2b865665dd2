package model

import "typesanitizer/pkg/sanitizer"

// Contact is a subscriber record as it arrives from sign-up forms.
type Contact struct {
	ID         int                   `json:"id" validate:"gte=0"`
	Name       string                `json:"name" validate:"required,min=2,max=100"`
	Phone      sanitizer.PhoneNumber `json:"phone" validate:"required,ru_phone"`
	Email      string                `json:"email" validate:"omitempty,email"`
	Age        *int                  `json:"age" validate:"omitempty,gte=0,lte=150"`
	Rating     float64               `json:"rating" validate:"gte=0,lte=5"`
	Subscribed bool                  `json:"subscribed"`
	GroupIDs   []int                 `json:"group_ids" validate:"omitempty,dive,gt=0"`
}

// Form is the flat four-field form the legacy endpoints post.
type Form struct {
	FieldOneInt     int     `json:"fieldOneInt"`
	FieldTwoInt     int     `json:"fieldTwoInt"`
	FieldTreeString string  `json:"fieldTreeString"`
	FieldFourFloat  float64 `json:"fieldFourFloat"`
}

const (
	ContactType = "Contact"
	FormType    = "Form"
)

// Register binds the model types to their names in r.
func Register(r *sanitizer.Registry) error {
	if err := sanitizer.Register[Contact](r, ContactType); err != nil {
		return err
	}
	return sanitizer.Register[Form](r, FormType)
}

func init() {
	if err := Register(sanitizer.DefaultRegistry); err != nil {
		panic(err)
	}
}
