package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/dmitrijs2005/drivault/internal/logging"
	"github.com/dmitrijs2005/drivault/internal/server/config"
	"github.com/dmitrijs2005/drivault/internal/server/files"
	"github.com/dmitrijs2005/drivault/internal/server/refreshtokens"
	"github.com/dmitrijs2005/drivault/internal/server/storage"
	"github.com/dmitrijs2005/drivault/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// --- fakes ---

type fakeUsersRepo struct {
	byEmail map[string]*users.User
	byID    map[int64]*users.User
	nextID  int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*users.User{}, byID: map[int64]*users.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct{}

func (fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	return nil
}

func (fakeRefreshRepo) Find(ctx context.Context, token string) (*refreshtokens.RefreshToken, error) {
	return nil, common.ErrorNotFound
}

func (fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return nil
}

type fakeFilesRepo struct {
	created []*files.File
	nextID  int64
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *files.File) (*files.File, error) {
	f.nextID++
	file.ID = f.nextID
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	f.created = append(f.created, file)
	return file, nil
}

func (f *fakeFilesRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*files.File, error) {
	var result []*files.File
	for _, file := range f.created {
		if file.OwnerID == ownerID {
			result = append(result, file)
		}
	}
	return result, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id int64) (*files.File, error) {
	for _, file := range f.created {
		if file.ID == id {
			return file, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- helpers ---

func newTestAPI(t *testing.T) (http.Handler, *fakeUsersRepo, *fakeFilesRepo) {
	t.Helper()

	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		Env:                          "test",
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	usersRepo := newFakeUsersRepo()
	filesRepo := &fakeFilesRepo{}

	us := users.NewService(usersRepo, fakeRefreshRepo{}, cfg)
	fs := files.NewService(filesRepo, storage.NewStore(t.TempDir()), logger)

	h := NewHandler(us, fs, logger, testSecret)
	return h.Router("prod"), usersRepo, filesRepo
}

func registerAlice(t *testing.T, repo *fakeUsersRepo) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), &users.User{
		FullName:     "Alice A",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         users.RoleStandard,
	})
	require.NoError(t, err)
	return user
}

func loginAlice(t *testing.T, api http.Handler) string {
	t.Helper()
	body := `{"email":"alice@example.com","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// --- tests ---

func TestHealthAndPing(t *testing.T) {
	api, _, _ := newTestAPI(t)

	for path, want := range map[string]string{"/health": `"status":"ok"`, "/ping": `"ping":"pong"`} {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), want)
	}
}

func TestRegister_Success(t *testing.T) {
	api, _, _ := newTestAPI(t)

	body := `{"fullname":"Alice A","email":"alice@example.com","password":"s3cret","confirm_password":"s3cret"}`
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "standard", resp.Role)
	assert.True(t, resp.IsActive)
	assert.NotContains(t, rec.Body.String(), "s3cret", "password must never be echoed")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	api, _, _ := newTestAPI(t)

	body := `{"fullname":"Alice A","email":"alice@example.com","password":"a","confirm_password":"b"}`
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api, usersRepo, _ := newTestAPI(t)
	registerAlice(t, usersRepo)

	body := `{"fullname":"Alice A","email":"alice@example.com","password":"x","confirm_password":"x"}`
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api, usersRepo, _ := newTestAPI(t)
	registerAlice(t, usersRepo)

	body := `{"email":"alice@example.com","password":"wrong"}`
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFiles_RequireAuth(t *testing.T) {
	api, _, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/files/list/all", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/files/list/all", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func multipartBody(t *testing.T, names map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range names {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadAndList(t *testing.T) {
	api, usersRepo, filesRepo := newTestAPI(t)
	registerAlice(t, usersRepo)
	token := loginAlice(t, api)

	body, contentType := multipartBody(t, map[string]string{
		"a.txt": "aaa",
		"b.pdf": "bbbbb",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded []fileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	require.Len(t, uploaded, 2)
	assert.NotEqual(t, uploaded[0].StoredName, uploaded[1].StoredName)

	sizes := map[string]int64{}
	for _, f := range uploaded {
		sizes[f.Name] = f.Size
		assert.Equal(t, "private", f.AccessType)
	}
	assert.Equal(t, int64(3), sizes["a.txt"])
	assert.Equal(t, int64(5), sizes["b.pdf"])

	require.Len(t, filesRepo.created, 2)

	listReq := httptest.NewRequest(http.MethodGet, "/v1/files/list/all", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, listReq)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []fileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestUpload_InvalidFilename(t *testing.T) {
	api, usersRepo, _ := newTestAPI(t)
	registerAlice(t, usersRepo)
	token := loginAlice(t, api)

	body, contentType := multipartBody(t, map[string]string{"noext": "data"})

	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_NoFiles(t *testing.T) {
	api, usersRepo, _ := newTestAPI(t)
	registerAlice(t, usersRepo)
	token := loginAlice(t, api)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("unrelated", "x"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_UnknownToken(t *testing.T) {
	api, _, _ := newTestAPI(t)

	body := `{"refresh_token":"no-such-token"}`
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	api, _, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "successfully logged out")
}
