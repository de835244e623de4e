package download

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"digishop/internal/database"
	"digishop/internal/domain"
	"digishop/internal/middleware"
	jwtsvc "digishop/internal/pkg/jwt"
	"digishop/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testFilePayload = "not really a pdf, but the bytes do not care"

type downloadSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	fileServer *httptest.Server

	customerID    int64
	ownedFileID   int64
	freeFileID    int64
	freeProductID int64
	paidProductID int64
}

func setupDownloadSuite(t *testing.T) *downloadSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// :memory: gives every pooled connection its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	models := []interface{}{
		&domain.User{},
		&domain.Shop{},
		&domain.Product{},
		&domain.DigitalFile{},
		&domain.Order{},
		&domain.PurchasedFile{},
		&domain.DownloadToken{},
		&domain.Media{},
	}
	for _, model := range models {
		require.NoError(t, db.AutoMigrate(model), fmt.Sprintf("Failed to migrate %T", model))
	}

	fileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte(testFilePayload))
	}))
	t.Cleanup(fileServer.Close)

	s := &downloadSuite{db: db, fileServer: fileServer}
	s.seed(t)

	purchasedRepo := repository.NewPurchasedFileRepository(db)
	tokenRepo := repository.NewDownloadTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	s.jwtService = jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	service := NewService(purchasedRepo, tokenRepo, productRepo, mediaRepo, NewHTTPFetcher(nil), "http://localhost:8080/api/v1")
	handler := NewHandler(service)

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	handler.RegisterRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(s.jwtService))
	handler.RegisterProtectedRoutes(protected)

	s.router = r
	return s
}

func (s *downloadSuite) seed(t *testing.T) {
	t.Helper()

	customer := domain.User{Email: "reader@example.com", PasswordHash: "x", Role: domain.RoleCustomer, Name: "Reader"}
	require.NoError(t, s.db.Create(&customer).Error)
	s.customerID = customer.ID

	shop := domain.Shop{Name: "Ink & Bytes", Slug: "ink-and-bytes"}
	require.NoError(t, s.db.Create(&shop).Error)

	// paid product the customer already bought
	paid := domain.Product{
		ShopID:      shop.ID,
		Name:        "Go for Grownups",
		Slug:        "go-for-grownups",
		Price:       12.50,
		ProductType: domain.ProductDigital,
		DigitalFile: &domain.DigitalFile{
			AttachmentID: 110,
			URL:          s.fileServer.URL + "/go-for-grownups.pdf",
			FileName:     "go-for-grownups.pdf",
		},
	}
	require.NoError(t, s.db.Create(&paid).Error)
	s.paidProductID = paid.ID
	s.ownedFileID = paid.DigitalFile.ID

	free := domain.Product{
		ShopID:      shop.ID,
		Name:        "Starter Sampler",
		Slug:        "starter-sampler",
		Price:       0,
		ProductType: domain.ProductDigital,
		DigitalFile: &domain.DigitalFile{
			AttachmentID: 120,
			URL:          s.fileServer.URL + "/sampler.pdf",
			FileName:     "sampler.pdf",
		},
	}
	require.NoError(t, s.db.Create(&free).Error)
	s.freeProductID = free.ID
	s.freeFileID = free.DigitalFile.ID

	for _, m := range []domain.Media{
		{ModelID: 110, FileName: "go-for-grownups.pdf", MimeType: "application/pdf", Size: int64(len(testFilePayload)), DiskName: "a1.pdf"},
		{ModelID: 120, FileName: "sampler.pdf", MimeType: "application/pdf", Size: int64(len(testFilePayload)), DiskName: "a2.pdf"},
	} {
		require.NoError(t, s.db.Create(&m).Error)
	}

	order := domain.Order{TrackingNumber: "trk-0001", CustomerID: customer.ID, Status: domain.OrderCompleted, Total: 12.50}
	require.NoError(t, s.db.Create(&order).Error)

	entitlement := domain.PurchasedFile{CustomerID: customer.ID, OrderID: order.ID, DigitalFileID: s.ownedFileID}
	require.NoError(t, s.db.Create(&entitlement).Error)
}

func (s *downloadSuite) authHeader(t *testing.T) string {
	t.Helper()
	tok, err := s.jwtService.GenerateToken(s.customerID, string(domain.RoleCustomer))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *downloadSuite) do(t *testing.T, method, url string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *downloadSuite) issueURL(t *testing.T, w *httptest.ResponseRecorder) (url, token string) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		Data    string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data)

	return resp.Data, path.Base(resp.Data)
}

func TestFetchDownloadableFiles(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodGet, "/api/v1/downloads", nil, s.authHeader(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool                   `json:"success"`
		Data    []domain.PurchasedFile `json:"data"`
		Total   int64                  `json:"total"`
		PerPage int                    `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 15, resp.PerPage)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, s.ownedFileID, resp.Data[0].DigitalFileID)
	require.NotNil(t, resp.Data[0].Order, "order relation should be loaded")
	require.NotNil(t, resp.Data[0].File, "file relation should be loaded")
	assert.Equal(t, "trk-0001", resp.Data[0].Order.TrackingNumber)
}

func TestFetchDownloadableFiles_RequiresAuth(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodGet, "/api/v1/downloads", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AUTHORIZED")
}

func TestPurchasedDownloadFlow(t *testing.T) {
	s := setupDownloadSuite(t)

	// issue
	w := s.do(t, http.MethodPost, "/api/v1/downloads/digital-file",
		GenerateDownloadURLRequest{DigitalFileID: s.ownedFileID}, s.authHeader(t))
	url, tok := s.issueURL(t, w)
	assert.Contains(t, url, "/download-url/")
	assert.Len(t, tok, 16)

	// redeem streams the file once
	w = s.do(t, http.MethodGet, "/api/v1/download-url/"+tok, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testFilePayload, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="go-for-grownups.pdf"`)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/pdf")

	// second redemption always fails; still a 200 with a message body
	w = s.do(t, http.MethodGet, "/api/v1/download-url/"+tok, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"TOKEN_NOT_FOUND"}`, w.Body.String())
}

func TestGenerateDownloadURL_NotPurchased(t *testing.T) {
	s := setupDownloadSuite(t)

	// the free product's file was never purchased by anyone
	w := s.do(t, http.MethodPost, "/api/v1/downloads/digital-file",
		GenerateDownloadURLRequest{DigitalFileID: s.freeFileID}, s.authHeader(t))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AUTHORIZED")
}

func TestFreeDownloadFlow(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodPost, "/api/v1/free-downloads/digital-file",
		GenerateFreeDownloadURLRequest{ProductID: s.freeProductID}, "")
	_, tok := s.issueURL(t, w)

	// free-product tokens are anonymous
	var dt domain.DownloadToken
	require.NoError(t, s.db.Where("token = ?", tok).First(&dt).Error)
	assert.Nil(t, dt.UserID)
	assert.False(t, dt.Downloaded)

	w = s.do(t, http.MethodGet, "/api/v1/download-url/"+tok, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testFilePayload, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="sampler.pdf"`)

	require.NoError(t, s.db.Where("token = ?", tok).First(&dt).Error)
	assert.True(t, dt.Downloaded)
}

func TestFreeDownload_PaidProduct(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodPost, "/api/v1/free-downloads/digital-file",
		GenerateFreeDownloadURLRequest{ProductID: s.paidProductID}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_A_FREE_PRODUCT")
}

func TestFreeDownload_UnknownProduct(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodPost, "/api/v1/free-downloads/digital-file",
		GenerateFreeDownloadURLRequest{ProductID: 424242}, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRedeem_UnknownToken(t *testing.T) {
	s := setupDownloadSuite(t)

	w := s.do(t, http.MethodGet, "/api/v1/download-url/definitely-not-a-token", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"TOKEN_NOT_FOUND"}`, w.Body.String())
}

// The consume step is a single conditional UPDATE, so racing redeemers of
// one token get exactly one winner.
func TestConsume_ExactlyOneWinner(t *testing.T) {
	s := setupDownloadSuite(t)
	tokenRepo := repository.NewDownloadTokenRepository(s.db)

	userID := s.customerID
	dt := &domain.DownloadToken{Token: "raceRACErace1234", UserID: &userID, DigitalFileID: s.ownedFileID}
	require.NoError(t, tokenRepo.Create(t.Context(), dt))

	const racers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tokenRepo.Consume(t.Context(), "raceRACErace1234"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one concurrent redeem may win")
}
