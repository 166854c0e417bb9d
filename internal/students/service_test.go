package students

import (
	"context"
	"sort"
	"strings"
	"testing"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/tasks"
)

// memRepo は users.username の UNIQUE 制約を再現する
type memRepo struct {
	rows   map[int64]StudentResponse
	hashes map[int64]string
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]StudentResponse{}, hashes: map[int64]string{}}
}

func (m *memRepo) dupError() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func (m *memRepo) taken(username string, except int64) bool {
	for id, r := range m.rows {
		if id != except && r.Username == username {
			return true
		}
	}
	return false
}

func (m *memRepo) List(_ context.Context, q ListQuery) ([]StudentResponse, int64, error) {
	all := []StudentResponse{}
	for _, r := range m.rows {
		if q.Role != "" && r.Role != q.Role {
			continue
		}
		if q.Q != "" && !strings.Contains(r.Username, q.Q) {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []StudentResponse{}, total, nil
	}
	all = all[q.Offset:]
	if len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, total, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*StudentResponse, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRepo) put(id int64, st Student) {
	dob, masuk := st.DateOfBirth, st.TanggalMasuk
	var keluar *string
	if st.TanggalKeluar != nil && *st.TanggalKeluar != "" {
		k := *st.TanggalKeluar
		keluar = &k
	}
	m.rows[id] = StudentResponse{
		ID: id, Username: st.Username, Role: st.Role, DateOfBirth: &dob,
		Sekolah: st.Sekolah, Jurusan: st.Jurusan, TanggalMasuk: &masuk, TanggalKeluar: keluar,
	}
	if st.PasswordHash != nil {
		m.hashes[id] = *st.PasswordHash
	}
}

func (m *memRepo) Create(_ context.Context, st Student) (int64, error) {
	if m.taken(st.Username, 0) {
		return 0, m.dupError()
	}
	m.nextID++
	m.put(m.nextID, st)
	return m.nextID, nil
}

func (m *memRepo) Update(_ context.Context, id int64, st Student) (int64, error) {
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	if m.taken(st.Username, id) {
		return 0, m.dupError()
	}
	m.put(id, st)
	return 1, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

type fakeTasks struct{ items []tasks.TaskResponse }

func (f fakeTasks) ListMine(context.Context, auth.Principal) ([]tasks.TaskResponse, error) {
	return f.items, nil
}

type fakeActivities struct{ today *activities.ActivityResponse }

func (f fakeActivities) Today(context.Context, auth.Principal) (*activities.ActivityResponse, error) {
	return f.today, nil
}

func newTestService(repo Repository) *Service {
	s := NewServiceWithRepo(repo, fakeTasks{}, fakeActivities{})
	s.cost = bcrypt.MinCost
	return s
}

func strp(s string) *string { return &s }

func validCreate(username string) CreateStudentRequest {
	return CreateStudentRequest{
		Username:     username,
		Sekolah:      "SMK Negeri 1",
		Jurusan:      "RPL",
		DateOfBirth:  "2006-03-15",
		TanggalMasuk: "2025-01-06",
	}
}

func TestCreateDefaultsPasswordToBirthDate(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	res, err := svc.Create(context.Background(), validCreate("budi"))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleIntern, res.Role)
	assert.Nil(t, res.TanggalKeluar)

	hash := repo.hashes[res.ID]
	require.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("150306")))
}

func TestCreateHashesExplicitPassword(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	in := validCreate("sari")
	in.Password = strp("rahasia123")
	res, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	hash := repo.hashes[res.ID]
	assert.NotEqual(t, "rahasia123", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia123")))
}

func TestCreateDuplicateUsernameIsConflict(t *testing.T) {
	svc := newTestService(newMemRepo())
	_, err := svc.Create(context.Background(), validCreate("budi"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreate("budi"))
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeConflict))
}

func TestCreateRejectsExitBeforeEntry(t *testing.T) {
	svc := newTestService(newMemRepo())
	in := validCreate("budi")
	in.TanggalKeluar = strp("2024-12-31")

	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestUpdateKeepsPasswordAndClearsExitDate(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	in := validCreate("budi")
	in.TanggalKeluar = strp("2025-06-30")
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created.TanggalKeluar)
	before := repo.hashes[created.ID]

	up := UpdateStudentRequest{
		Username:     "budi.s",
		Sekolah:      "SMK Negeri 2",
		Jurusan:      "TKJ",
		DateOfBirth:  "2006-03-15",
		TanggalMasuk: "2025-01-06",
	}
	res, err := svc.Update(context.Background(), created.ID, up)
	require.NoError(t, err)
	assert.Equal(t, "budi.s", res.Username)
	assert.Equal(t, auth.RoleIntern, res.Role)
	assert.Nil(t, res.TanggalKeluar)
	assert.Equal(t, before, repo.hashes[created.ID])
}

func TestUpdateMissingAndDuplicate(t *testing.T) {
	svc := newTestService(newMemRepo())
	a, err := svc.Create(context.Background(), validCreate("budi"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validCreate("sari"))
	require.NoError(t, err)

	up := UpdateStudentRequest{Username: "sari", Sekolah: "x", Jurusan: "y", DateOfBirth: "2006-03-15", TanggalMasuk: "2025-01-06"}
	_, err = svc.Update(context.Background(), a.ID, up)
	assert.True(t, apierr.Is(err, apierr.CodeConflict))

	_, err = svc.Update(context.Background(), 999, up)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	svc := newTestService(newMemRepo())
	err := svc.Delete(context.Background(), 42)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestListDefaultsToInterns(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	_, err := svc.Create(context.Background(), validCreate("budi"))
	require.NoError(t, err)
	repo.put(100, Student{Username: "admin", Role: auth.RoleAdmin})

	res, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, "budi", res.Items[0].Username)

	res, err = svc.List(context.Background(), ListQuery{Role: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	_, err = svc.List(context.Background(), ListQuery{Role: "GUEST"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestProfileCombinesTasksAndTodayActivity(t *testing.T) {
	repo := newMemRepo()
	today := &activities.ActivityResponse{ID: 7, Description: "Membuat laporan"}
	svc := NewServiceWithRepo(repo,
		fakeTasks{items: []tasks.TaskResponse{{ID: 3, Title: "Laporan"}}},
		fakeActivities{today: today})
	svc.cost = bcrypt.MinCost

	created, err := svc.Create(context.Background(), validCreate("budi"))
	require.NoError(t, err)

	res, err := svc.Profile(context.Background(), auth.Principal{UserID: created.ID, Role: auth.RoleIntern})
	require.NoError(t, err)
	assert.Equal(t, "budi", res.Username)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Laporan", res.Tasks[0].Title)
	assert.Equal(t, today, res.TodayActivity)

	_, err = svc.Profile(context.Background(), auth.Principal{UserID: 404, Role: auth.RoleIntern})
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}
