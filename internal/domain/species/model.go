package species

// Species y Breed son data de referencia estática: el core solo las lee,
// no hay lifecycle acá.
type Species struct {
	ID   int64
	Name string
}

type Breed struct {
	ID        int64
	SpeciesID int64
	Name      string
}
