package family

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

// PersonAttributes are display details carried with a member. The engine
// never reads them.
type PersonAttributes struct {
	Address  string `json:"address,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type Person struct {
	ID         string         `gorm:"primaryKey;size:64;column:id" json:"id"`
	Name       string         `gorm:"not null;column:name" json:"name"`
	Gender     string         `gorm:"not null;size:16;column:gender;default:unspecified" json:"gender"`
	Attributes datatypes.JSON `gorm:"column:attributes" json:"attributes,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Person) TableName() string { return "person" }

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Gender == "" {
		p.Gender = string(kinship.Unspecified)
	}
	return nil
}

func (p *Person) SetAttributes(a PersonAttributes) error {
	if a == (PersonAttributes{}) {
		p.Attributes = nil
		return nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	p.Attributes = datatypes.JSON(b)
	return nil
}

func (p *Person) GetAttributes() (PersonAttributes, error) {
	var a PersonAttributes
	if len(p.Attributes) == 0 {
		return a, nil
	}
	err := json.Unmarshal(p.Attributes, &a)
	return a, err
}

// Kinship converts the row to the engine's view. Unknown genders read as unspecified.
func (p *Person) Kinship() kinship.Person {
	g, err := kinship.ParseGender(p.Gender)
	if err != nil {
		g = kinship.Unspecified
	}
	return kinship.Person{ID: p.ID, Name: p.Name, Gender: g}
}

func PersonFromKinship(kp kinship.Person) *Person {
	return &Person{ID: kp.ID, Name: kp.Name, Gender: kp.Gender.String()}
}
