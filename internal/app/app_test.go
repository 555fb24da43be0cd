package app

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"nopo_backend/internal/config"
	"nopo_backend/internal/models"
	"nopo_backend/internal/storage"
	"nopo_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	store  *storage.MemoryStorage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := storage.NewMemoryStorage("/files")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "nopo-test"
	cfg.JWT.TTL = 15
	cfg.JWT.RefreshTTL = 1
	cfg.Storage.Type = "memory"
	cfg.Storage.BaseURL = "/files"

	return &testApp{
		router: SetupRouter(cfg, db, store),
		db:     db,
		store:  store,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "no error object in %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// register возвращает access, refresh и id пользователя.
func (a *testApp) register(t *testing.T, email, nickname string) (string, string, string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"nickname": nickname,
		"gender":   "female",
		"ageRange": "20s",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	return body["access_token"].(string), body["refresh_token"].(string), body["user_id"].(string)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestReviewLifecycle(t *testing.T) {
	a := newTestApp(t)
	resto := testutil.CreateRestaurant(t, a.db, "r1")
	access, _, _ := a.register(t, "u1@example.com", "u1")
	otherAccess, _, _ := a.register(t, "u2@example.com", "u2")

	review := map[string]interface{}{"restoId": resto.ID, "content": "맛있어요", "rating": 5}

	// без токена
	w := a.do(t, http.MethodPost, "/api/v1/reviews", "", review)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/reviews", access, review)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := decode(t, w)["reviewId"].(string)
	require.NotEmpty(t, reviewID)

	w = a.do(t, http.MethodPost, "/api/v1/reviews", access, review)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", errorCode(t, w))

	w = a.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "맛있어요", body["content"])
	assert.Equal(t, "u1", body["nickname"])
	assert.Equal(t, "r1", body["restoName"])
	assert.Equal(t, float64(5), body["rating"])
	assert.Equal(t, []interface{}{}, body["imageUrl"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, body["regdate"])

	update := map[string]interface{}{"content": "별로", "rating": 2}
	w = a.do(t, http.MethodPut, "/api/v1/reviews/"+reviewID, otherAccess, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REVIEW_UPDATE_FORBIDDEN", errorCode(t, w))

	w = a.do(t, http.MethodPut, "/api/v1/reviews/"+reviewID, access, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/restaurants/"+resto.ID+"/rating", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["average_rating"])

	w = a.do(t, http.MethodGet, "/api/v1/users/me/visited", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var visited []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &visited))
	require.Len(t, visited, 1)
	assert.Equal(t, resto.ID, visited[0]["restoId"])

	w = a.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, otherAccess, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REVIEW_DELETE_FORBIDDEN", errorCode(t, w))

	w = a.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REVIEW_NOT_FOUND", errorCode(t, w))
}

func TestCreateReview_Validation(t *testing.T) {
	a := newTestApp(t)
	resto := testutil.CreateRestaurant(t, a.db, "r1")
	access, _, _ := a.register(t, "u1@example.com", "u1")

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"rating too high", map[string]interface{}{"restoId": resto.ID, "content": "ok", "rating": 6}, http.StatusBadRequest},
		{"rating zero", map[string]interface{}{"restoId": resto.ID, "content": "ok", "rating": 0}, http.StatusBadRequest},
		{"blank content", map[string]interface{}{"restoId": resto.ID, "content": "   ", "rating": 3}, http.StatusBadRequest},
		{"unknown restaurant", map[string]interface{}{"restoId": "missing", "content": "ok", "rating": 3}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/api/v1/reviews", access, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, int64(0), testutil.Count(t, a.db, &models.Review{}, ""))
}

func TestCreateReview_Multipart(t *testing.T) {
	a := newTestApp(t)
	resto := testutil.CreateRestaurant(t, a.db, "r1")
	access, _, _ := a.register(t, "u1@example.com", "u1")

	newRequest := func(t *testing.T) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		reviewJSON, err := json.Marshal(map[string]interface{}{"restoId": resto.ID, "content": "사진 첨부", "rating": 4})
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("review", string(reviewJSON)))
		for _, name := range []string{"a.png", "b.png"} {
			fw, err := mw.CreateFormFile("images", name)
			require.NoError(t, err)
			_, err = fw.Write(pngBytes(t))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+access)
		return req
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, newRequest(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := decode(t, w)["reviewId"].(string)
	assert.Equal(t, 2, a.store.Len())

	w = a.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	urls := decode(t, w)["imageUrl"].([]interface{})
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "/files/reviews/")

	// повтор: отзыв отклонен, загруженные в этом запросе файлы удалены
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, newRequest(t))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2, a.store.Len())

	w = a.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, a.store.Len())
}

// multipartReview собирает POST /api/v1/reviews с частью review и файлами images.
func multipartReview(t *testing.T, token string, review map[string]interface{}, files int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	reviewJSON, err := json.Marshal(review)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("review", string(reviewJSON)))
	for i := 0; i < files; i++ {
		fw, err := mw.CreateFormFile("images", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(pngBytes(t))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateReview_RejectedMultipartKeepsEarlierUploads(t *testing.T) {
	a := newTestApp(t)
	resto := testutil.CreateRestaurant(t, a.db, "r1")
	access, _, userID := a.register(t, "u1@example.com", "u1")

	// картинка, загруженная заранее через /reviews/images
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", "early.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	early := decode(t, w)["imageUrls"].([]interface{})[0].(string)
	earlyKey, ok := a.store.PathFromURL(early)
	require.True(t, ok)

	review := map[string]interface{}{"restoId": resto.ID, "content": "первый", "rating": 5, "imageUrls": []string{early}}
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, multipartReview(t, access, review, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2, a.store.Len())

	// дубликат: удаляется только файл этого запроса
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, multipartReview(t, access, review, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2, a.store.Len())
	exists, err := a.store.Exists(req.Context(), earlyKey)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, earlyKey, "reviews/"+userID+"/")
}

func TestCreateReview_ForeignImageURL(t *testing.T) {
	a := newTestApp(t)
	r1 := testutil.CreateRestaurant(t, a.db, "r1")
	r2 := testutil.CreateRestaurant(t, a.db, "r2")
	ownerAccess, _, _ := a.register(t, "u1@example.com", "u1")
	otherAccess, _, _ := a.register(t, "u2@example.com", "u2")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, multipartReview(t, ownerAccess,
		map[string]interface{}{"restoId": r1.ID, "content": "мой", "rating": 5}, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := decode(t, w)["reviewId"].(string)

	w = a.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	photo := decode(t, w)["imageUrl"].([]interface{})[0].(string)

	w = a.do(t, http.MethodPost, "/api/v1/reviews", otherAccess, map[string]interface{}{
		"restoId": r2.ID, "content": "чужое фото", "rating": 1, "imageUrls": []string{photo},
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, "IMAGE_NOT_OWNED", errorCode(t, w))

	// multipart с чужим URL: свой файл из запроса тоже не остается
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, multipartReview(t, otherAccess,
		map[string]interface{}{"restoId": r2.ID, "content": "чужое фото", "rating": 1, "imageUrls": []string{photo}}, 1))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, 1, a.store.Len())
	assert.Equal(t, int64(1), testutil.Count(t, a.db, &models.Review{}, ""))
}

func TestUploadImages_RejectsNonImage(t *testing.T) {
	a := newTestApp(t)
	access, _, _ := a.register(t, "u1@example.com", "u1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", "notes.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("just some text, not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code, w.Body.String())
	assert.Equal(t, 0, a.store.Len())
}

func TestLegacyUserEndpoints(t *testing.T) {
	a := newTestApp(t)
	resto := testutil.CreateRestaurant(t, a.db, "r1")
	access, _, userID := a.register(t, "u1@example.com", "u1")

	w := a.do(t, http.MethodGet, "/user/missing", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"statusCode":400,"message":"Fail"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/user/"+userID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", decode(t, w)["nickname"])

	w = a.do(t, http.MethodPatch, "/user", access, map[string]string{"nickname": "renamed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "200", body["statusCode"])
	assert.Nil(t, body["message"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])

	w = a.do(t, http.MethodPatch, "/user", "", map[string]string{"nickname": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/reviews", access, map[string]interface{}{"restoId": resto.ID, "content": "ok", "rating": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodDelete, "/user", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"statusCode":200,"message":"Success"}`, w.Body.String())

	assert.Equal(t, int64(0), testutil.Count(t, a.db, &models.Review{}, "user_id = ?", userID))
	assert.Equal(t, int64(0), testutil.Count(t, a.db, &models.Visited{}, "user_id = ?", userID))

	w = a.do(t, http.MethodGet, "/user/"+userID, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRefreshAndLogout(t *testing.T) {
	a := newTestApp(t)
	_, refresh, _ := a.register(t, "u1@example.com", "u1")

	w := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "u1@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decode(t, w)["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	// старый токен после ротации не работает
	w = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refresh_token": rotated})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": rotated})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRestaurantSearchAndSimilar(t *testing.T) {
	a := newTestApp(t)
	target := testutil.CreateRestaurantAt(t, a.db, "target", 126.99, 37.56)
	other := testutil.CreateRestaurantAt(t, a.db, "other", 127.50, 37.56)
	access, _, _ := a.register(t, "u1@example.com", "u1")

	for _, resto := range []*models.Restaurant{target, other} {
		w := a.do(t, http.MethodPost, "/api/v1/reviews", access, map[string]interface{}{
			"restoId": resto.ID, "content": "ok", "rating": 4,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := a.do(t, http.MethodGet, "/api/v1/restaurants?x=126.99&y=37.56", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	found := body["restaurants"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, target.ID, found["restoId"])
	assert.Equal(t, float64(4), found["averageRating"])

	for _, query := range []string{"?x=126.99", "?x=abc&y=1", "?x=200&y=37"} {
		w = a.do(t, http.MethodGet, "/api/v1/restaurants"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}

	w = a.do(t, http.MethodGet, "/api/v1/restaurants/"+target.ID+"/similar", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	similar := decode(t, w)["restaurants"].([]interface{})
	require.Len(t, similar, 1)
	assert.Equal(t, other.ID, similar[0].(map[string]interface{})["restoId"])

	w = a.do(t, http.MethodGet, "/api/v1/restaurants/missing/similar", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
