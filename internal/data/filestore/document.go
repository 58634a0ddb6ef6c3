package filestore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

// Document is the on-disk family file. YAML and JSON share the same shape.
type Document struct {
	Persons   []PersonRecord   `yaml:"persons" json:"persons" validate:"dive"`
	Relations []RelationRecord `yaml:"relations" json:"relations" validate:"dive"`
}

type PersonRecord struct {
	ID       string `yaml:"id" json:"id" validate:"required,max=64"`
	Name     string `yaml:"name" json:"name" validate:"required"`
	Gender   string `yaml:"gender,omitempty" json:"gender,omitempty" validate:"omitempty,gender"`
	Address  string `yaml:"address,omitempty" json:"address,omitempty"`
	Mobile   string `yaml:"mobile,omitempty" json:"mobile,omitempty"`
	PhotoURL string `yaml:"photo_url,omitempty" json:"photo_url,omitempty" validate:"omitempty,url"`
}

// RelationRecord reads "Source is Target's Type".
type RelationRecord struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	Source string `yaml:"source" json:"source" validate:"required"`
	Target string `yaml:"target" json:"target" validate:"required,nefield=Source"`
	Type   string `yaml:"type" json:"type" validate:"required,relation_type"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		_, err := kinship.ParseGender(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("relation_type", func(fl validator.FieldLevel) bool {
		_, err := kinship.ParseRelationType(fl.Field().String())
		return err == nil
	})
	return v
}

// Parse decodes a YAML or JSON family document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse family document: %w", err)
	}
	return &doc, nil
}

// Validate checks field rules and unique person ids. Relations naming
// unknown persons are reported by Dangling, not rejected.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			err = errors.New(strings.Join(msgs, "; "))
			for _, fe := range verrs {
				if fe.Tag() == "relation_type" {
					return fmt.Errorf("invalid family document: %w: %v", kinship.ErrUnmappedRelationType, err)
				}
			}
		}
		return fmt.Errorf("invalid family document: %w", err)
	}
	seen := make(map[string]bool, len(d.Persons))
	for _, p := range d.Persons {
		if seen[p.ID] {
			return fmt.Errorf("invalid family document: duplicate person id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Dangling lists relations whose endpoints are missing from the document.
func (d *Document) Dangling() []RelationRecord {
	known := make(map[string]bool, len(d.Persons))
	for _, p := range d.Persons {
		known[p.ID] = true
	}
	var out []RelationRecord
	for _, r := range d.Relations {
		if !known[r.Source] || !known[r.Target] {
			out = append(out, r)
		}
	}
	return out
}

// Dataset converts a validated document.
func (d *Document) Dataset(revision string) kinship.Dataset {
	ds := kinship.Dataset{
		Persons:   make([]kinship.Person, 0, len(d.Persons)),
		Relations: make([]kinship.Relation, 0, len(d.Relations)),
		Revision:  revision,
	}
	for _, p := range d.Persons {
		g, _ := kinship.ParseGender(p.Gender)
		ds.Persons = append(ds.Persons, kinship.Person{ID: p.ID, Name: p.Name, Gender: g})
	}
	for i, r := range d.Relations {
		t, _ := kinship.ParseRelationType(r.Type)
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("r%d", i+1)
		}
		ds.Relations = append(ds.Relations, kinship.Relation{ID: id, SourceID: r.Source, TargetID: r.Target, Type: t})
	}
	return ds
}

// FromDataset renders a dataset as a document, e.g. for export.
func FromDataset(ds kinship.Dataset) *Document {
	doc := &Document{}
	for _, p := range ds.Persons {
		doc.Persons = append(doc.Persons, PersonRecord{ID: p.ID, Name: p.Name, Gender: p.Gender.String()})
	}
	for _, r := range ds.Relations {
		doc.Relations = append(doc.Relations, RelationRecord{ID: r.ID, Source: r.SourceID, Target: r.TargetID, Type: string(r.Type)})
	}
	return doc
}
