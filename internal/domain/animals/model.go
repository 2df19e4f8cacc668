package animals

import "time"

// Gender define el sexo del animal.
// @Enum Male, Female, Unknown
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// ParseGender valida estrictamente: valores fuera del enum no son representables.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderUnknown:
		return Gender(s), true
	}
	return "", false
}

// Status define el estado de adopción.
// @Enum Available, Reserved, Adopted
type Status string

const (
	StatusAvailable Status = "Available"
	StatusReserved  Status = "Reserved"
	StatusAdopted   Status = "Adopted"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusReserved, StatusAdopted:
		return Status(s), true
	}
	return "", false
}

// Fields son los campos escalares que toda mutación reemplaza completos
// (replace-on-write, nunca patch parcial).
type Fields struct {
	Name        string
	Species     string
	Breed       string
	Gender      Gender
	AgeMonths   int
	Temperament string
	Status      Status
}

// Animal es una fila de animals. CoverImage es la referencia denormalizada
// a la imagen principal; vive aparte del image set pero siempre apunta a un
// miembro de él una vez que el animal existe.
type Animal struct {
	ID int64

	Fields

	CoverImage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail es el animal con su image set resuelto en orden de display.
// La cover va primera siempre, sin duplicarse si ya es parte del set.
type Detail struct {
	Animal
	Images []string
}
