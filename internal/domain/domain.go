package domain

import (
	"github.com/yungbote/vamshavali-backend/internal/domain/family"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

type (
	Person           = family.Person
	PersonAttributes = family.PersonAttributes
	Relation         = family.Relation
)

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&Person{},
		&Relation{},
	}
}

func PersonFromKinship(p kinship.Person) *Person { return family.PersonFromKinship(p) }

func RelationFromKinship(r kinship.Relation) *Relation { return family.RelationFromKinship(r) }
