package controller

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/project/circulation/internal/entity"
)

type bookRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AuthorIDs   []string `json:"author_ids"`
	Subjects    []string `json:"subjects"`
}

func (b bookRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.Length(1, 512)),
		validation.Field(&b.Description, validation.Length(0, 8192)),
		validation.Field(&b.AuthorIDs, validation.Each(validation.Required, is.UUID)),
		validation.Field(&b.Subjects, validation.Each(validation.Required, validation.Length(1, 128))),
	)
}

func (b bookRequest) book(id string) entity.Book {
	return entity.Book{
		ID:          id,
		Title:       b.Title,
		Description: b.Description,
		AuthorIDs:   b.AuthorIDs,
		Subjects:    b.Subjects,
	}
}

type authorRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (a authorRequest) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 512)),
		validation.Field(&a.Bio, validation.Length(0, 8192)),
	)
}

type issueRequest struct {
	BookID string `json:"book_id"`
	UserID string `json:"user_id"`
}

func (i issueRequest) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.BookID, validation.Required, is.UUID),
		validation.Field(&i.UserID, validation.Length(0, 256)),
	)
}

type itemRequest struct {
	AccessionNo string `json:"acc_no"`
}

func (i itemRequest) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.AccessionNo, validation.By(notBlank), validation.Length(1, 64)),
	)
}

type vectorRequest struct {
	Values []float64 `json:"values"`
}

func (v vectorRequest) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Values, validation.Required),
	)
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.ErrRequired
	}
	return nil
}

// pathID reads a uuid path parameter.
func pathID(r request, name string) (string, error) {
	id := r.params[name]
	if err := validation.Validate(id, validation.Required, is.UUID); err != nil {
		return "", invalid(validation.Errors{name: err})
	}
	return id, nil
}

func decodeValid[T validation.Validatable](r request) (T, error) {
	var req T
	if err := decode(r, &req); err != nil {
		return req, err
	}
	if err := req.Validate(); err != nil {
		return req, invalid(err)
	}
	return req, nil
}
