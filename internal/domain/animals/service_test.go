package animals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"adopthub/internal/ports/auth"
	"adopthub/internal/ports/media"
)

// -------------------------
// Test stores (in-memory, con fallas inyectables)
// -------------------------

type testRecords struct {
	mu     sync.Mutex
	byID   map[int64]Animal
	nextID int64
}

func newTestRecords() *testRecords {
	return &testRecords{byID: map[int64]Animal{}, nextID: 1}
}

func (r *testRecords) Insert(ctx context.Context, a Animal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.byID[a.ID] = a
	return a.ID, nil
}

func (r *testRecords) Update(ctx context.Context, id int64, f Fields, cover *string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Fields = f
	if cover != nil {
		a.CoverImage = *cover
	}
	a.UpdatedAt = updatedAt
	r.byID[id] = a
	return nil
}

func (r *testRecords) Get(ctx context.Context, id int64) (Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRecords) List(ctx context.Context) ([]Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *testRecords) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testImages struct {
	mu          sync.Mutex
	sets        map[int64][]string
	failInsert  bool
	failReplace bool
}

func newTestImages() *testImages {
	return &testImages{sets: map[int64][]string{}}
}

func (r *testImages) InsertSet(ctx context.Context, animalID int64, refs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errors.New("image set store down")
	}
	r.sets[animalID] = append([]string(nil), refs...)
	return nil
}

func (r *testImages) ReplaceSet(ctx context.Context, animalID int64, refs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReplace {
		return errors.New("image set store down")
	}
	r.sets[animalID] = append([]string(nil), refs...)
	return nil
}

func (r *testImages) ListForAnimal(ctx context.Context, animalID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sets[animalID]...), nil
}

func (r *testImages) DeleteForAnimal(ctx context.Context, animalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, animalID)
	return nil
}

// testMedia aplica el mismo contrato que los stores reales y puede fallar
// en el save número failAt (1-based).
type testMedia struct {
	mu     sync.Mutex
	files  map[string]struct{}
	saves  int
	failAt int
}

func newTestMedia() *testMedia {
	return &testMedia{files: map[string]struct{}{}}
}

func (m *testMedia) Save(ctx context.Context, up media.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", media.ErrInvalidType
	}

	m.saves++
	if m.failAt > 0 && m.saves == m.failAt {
		return "", errors.New("media store down")
	}

	ref := fmt.Sprintf("/images/%d-%s", m.saves, up.Filename)
	m.files[ref] = struct{}{}
	return ref, nil
}

func (m *testMedia) Remove(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[ref]; !ok {
		return errors.New("media ref not found")
	}
	delete(m.files, ref)
	return nil
}

func (m *testMedia) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// -------------------------
// Helpers
// -------------------------

func newTestService() (*Service, *testRecords, *testImages, *testMedia) {
	records := newTestRecords()
	images := newTestImages()
	mediaStore := newTestMedia()
	return NewService(records, images, mediaStore, nil), records, images, mediaStore
}

func adminCaller() auth.Caller {
	return auth.Caller{ID: 1, Name: "Ana", Email: "ana@example.com", Role: auth.RoleAdmin}
}

func viewerCaller() auth.Caller {
	return auth.Caller{ID: 2, Name: "Bob", Email: "bob@example.com", Role: auth.RoleUser}
}

func validInput() Input {
	return Input{
		Name:        "Rex",
		Species:     "Dog",
		Breed:       "Lab",
		Gender:      "Male",
		AgeMonths:   14,
		Temperament: "Friendly",
		Status:      "Available",
	}
}

func jpeg(name string) media.Upload {
	return media.Upload{Filename: name, ContentType: "image/jpeg", Data: []byte(name + "-bytes")}
}

// -------------------------
// Create
// -------------------------

func TestCreate_CoverIsFirstUpload(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	d, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(d.Images) != 2 {
		t.Fatalf("expected 2 images, got %d (%v)", len(d.Images), d.Images)
	}
	if d.CoverImage != d.Images[0] {
		t.Fatalf("cover %q is not first image %q", d.CoverImage, d.Images[0])
	}

	// sin duplicados
	seen := map[string]bool{}
	for _, ref := range d.Images {
		if seen[ref] {
			t.Fatalf("duplicate ref %q in %v", ref, d.Images)
		}
		seen[ref] = true
	}
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Input)
		uploads int
		field   string
	}{
		{"empty name", func(in *Input) { in.Name = "   " }, 1, "name"},
		{"empty species", func(in *Input) { in.Species = "" }, 1, "species"},
		{"empty breed", func(in *Input) { in.Breed = "" }, 1, "breed"},
		{"empty temperament", func(in *Input) { in.Temperament = "" }, 1, "temperament"},
		{"negative age", func(in *Input) { in.AgeMonths = -1 }, 1, "age_months"},
		{"bad gender", func(in *Input) { in.Gender = "X" }, 1, "gender"},
		{"bad status", func(in *Input) { in.Status = "Pending" }, 1, "status"},
		{"zero images", func(in *Input) {}, 0, "image"},
		{"four images", func(in *Input) {}, 4, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, records, images, mediaStore := newTestService()
			ctx := context.Background()

			in := validInput()
			tc.mutate(&in)

			uploads := make([]media.Upload, 0, tc.uploads)
			for i := 0; i < tc.uploads; i++ {
				uploads = append(uploads, jpeg(fmt.Sprintf("img%d.jpg", i)))
			}

			_, err := svc.Create(ctx, adminCaller(), in, uploads)

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%s)", tc.field, fe.Field, fe.Message)
			}

			// nada persistido
			if list, _ := svc.List(ctx); len(list) != 0 {
				t.Fatalf("expected no animals, got %d", len(list))
			}
			if len(records.byID) != 0 || len(images.sets) != 0 {
				t.Fatalf("expected empty stores")
			}
			if mediaStore.len() != 0 {
				t.Fatalf("expected no media files, got %d", mediaStore.len())
			}
		})
	}
}

func TestMutations_AuthGate(t *testing.T) {
	svc, records, _, mediaStore := newTestService()
	ctx := context.Background()

	uploads := []media.Upload{jpeg("a.jpg")}

	// sin identidad => Unauthenticated
	if _, err := svc.Create(ctx, auth.Caller{}, validInput(), uploads); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := svc.Update(ctx, auth.Caller{}, 1, validInput(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := svc.Delete(ctx, auth.Caller{}, 1); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	// identidad sin rol => Forbidden
	if _, err := svc.Create(ctx, viewerCaller(), validInput(), uploads); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Update(ctx, viewerCaller(), 1, validInput(), nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, viewerCaller(), 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// sin cambios de estado
	if len(records.byID) != 0 || mediaStore.len() != 0 {
		t.Fatalf("expected no state change from rejected mutations")
	}
}

func TestCreate_PartialMediaFailure_AbortsAndCleans(t *testing.T) {
	svc, records, images, mediaStore := newTestService()
	mediaStore.failAt = 3
	ctx := context.Background()

	_, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")})
	if err == nil {
		t.Fatal("expected error from media failure")
	}

	if len(records.byID) != 0 || len(images.sets) != 0 {
		t.Fatalf("expected nothing persisted after media failure")
	}
	if mediaStore.len() != 0 {
		t.Fatalf("expected stored files cleaned up, %d left", mediaStore.len())
	}
}

func TestCreate_ImageSetFailure_RollsBackAnimal(t *testing.T) {
	svc, records, images, mediaStore := newTestService()
	images.failInsert = true

	_, err := svc.Create(context.Background(), adminCaller(), validInput(), []media.Upload{jpeg("a.jpg")})
	if err == nil {
		t.Fatal("expected error from image set failure")
	}

	if len(records.byID) != 0 {
		t.Fatalf("expected animal row rolled back, found %d rows", len(records.byID))
	}
	if mediaStore.len() != 0 {
		t.Fatalf("expected stored files cleaned up, %d left", mediaStore.len())
	}
}

func TestCreate_RejectsNonImageUpload(t *testing.T) {
	svc, _, _, _ := newTestService()

	up := media.Upload{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("x")}
	_, err := svc.Create(context.Background(), adminCaller(), validInput(), []media.Upload{up})
	if !errors.Is(err, media.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

// -------------------------
// Update
// -------------------------

func TestUpdate_NoImages_LeavesSetAndCoverUntouched(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := svc.Get(ctx, id)

	in := validInput()
	in.Status = "Reserved"
	if err := svc.Update(ctx, adminCaller(), id, in, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if after.Status != StatusReserved {
		t.Fatalf("expected status Reserved, got %s", after.Status)
	}
	if after.CoverImage != before.CoverImage {
		t.Fatalf("cover changed: %q -> %q", before.CoverImage, after.CoverImage)
	}
	if len(after.Images) != len(before.Images) {
		t.Fatalf("image set changed: %v -> %v", before.Images, after.Images)
	}
	for i := range before.Images {
		if after.Images[i] != before.Images[i] {
			t.Fatalf("image set changed at %d: %v -> %v", i, before.Images, after.Images)
		}
	}
}

func TestUpdate_WithImages_ReplacesWholeSet(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := svc.Get(ctx, id)

	if err := svc.Update(ctx, adminCaller(), id, validInput(), []media.Upload{jpeg("c.jpg")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(after.Images) != 1 {
		t.Fatalf("expected 1 image after replace, got %v", after.Images)
	}
	if after.CoverImage != after.Images[0] {
		t.Fatalf("cover %q is not the new image %q", after.CoverImage, after.Images[0])
	}
	for _, old := range before.Images {
		for _, ref := range after.Images {
			if ref == old {
				t.Fatalf("old ref %q survived the replace", old)
			}
		}
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.Update(context.Background(), adminCaller(), 999, validInput(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_ReplaceFailure_KeepsScalarCommit(t *testing.T) {
	svc, records, images, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	images.failReplace = true
	in := validInput()
	in.Name = "Rex II"
	if err := svc.Update(ctx, adminCaller(), id, in, []media.Upload{jpeg("b.jpg")}); err == nil {
		t.Fatal("expected error from replace failure")
	}

	// frontera aceptada: los escalares quedan commiteados
	a := records.byID[id]
	if a.Name != "Rex II" {
		t.Fatalf("expected scalar update to stick, got name %q", a.Name)
	}
}

// -------------------------
// Delete / Get / List
// -------------------------

func TestDelete_CascadesAndIsNotFoundIdempotent(t *testing.T) {
	svc, _, images, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, adminCaller(), validInput(), []media.Upload{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, adminCaller(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if refs := images.sets[id]; len(refs) != 0 {
		t.Fatalf("expected no orphan image rows, got %v", refs)
	}

	// segundo delete: NotFound, nunca panic
	if err := svc.Delete(ctx, adminCaller(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGet_PrependsCoverMissingFromSet(t *testing.T) {
	svc, records, images, _ := newTestService()
	ctx := context.Background()

	// estado defensivo: cover que no es miembro del set
	id, _ := records.Insert(ctx, Animal{
		Fields:     Fields{Name: "Luna", Species: "Cat", Breed: "Siamese", Gender: GenderFemale, AgeMonths: 8, Temperament: "Calm", Status: StatusAvailable},
		CoverImage: "/images/cover.jpg",
	})
	_ = images.InsertSet(ctx, id, []string{"/images/x.jpg"})

	d, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(d.Images) != 2 || d.Images[0] != "/images/cover.jpg" {
		t.Fatalf("expected cover prepended, got %v", d.Images)
	}
}

func TestList_OrderedByID(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		in := validInput()
		in.Name = fmt.Sprintf("Animal %d", i)
		if _, err := svc.Create(ctx, adminCaller(), in, []media.Upload{jpeg(fmt.Sprintf("%d.jpg", i))}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 animals, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("list not ordered by id asc: %v", list)
		}
	}
}
