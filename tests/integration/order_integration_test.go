package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/canoasgas/pedidos-api/controllers"
	"github.com/canoasgas/pedidos-api/middleware"
	"github.com/canoasgas/pedidos-api/models"
	"github.com/canoasgas/pedidos-api/render"
	"github.com/canoasgas/pedidos-api/services"
	"github.com/canoasgas/pedidos-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// OrderIntegrationTestSuite exercises the order desk through the HTTP routes,
// the services and an in-memory database, with Kafka and S3 mocked out
type OrderIntegrationTestSuite struct {
	suite.Suite
	router   *gin.Engine
	db       *gorm.DB
	producer *mocks.SyncProducer
	storage  *services.MockS3Service
}

// SetupSuite runs once before all tests
func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *OrderIntegrationTestSuite) SetupTest() {
	suite.db = testutil.UseTestDB(suite.T())

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	suite.producer = mocks.NewSyncProducer(suite.T(), config)

	suite.storage = services.NewMockS3Service()
	suite.storage.SetAsMockForTesting()

	services.InitOrderService(suite.db, services.DefaultCatalog(),
		services.NewKafkaPublisherWithProducer(suite.producer, "order-events"))

	suite.router = gin.New()
	suite.router.Use(middleware.RequestID())
	controllers.RegisterRoutes(suite.router.Group("/api/v1"))
}

// TearDownTest runs after each test
func (suite *OrderIntegrationTestSuite) TearDownTest() {
	suite.NoError(suite.producer.Close(), "every expected event was published")
	services.SetOrderService(nil)
	services.SetS3Service(nil)
}

func (suite *OrderIntegrationTestSuite) request(method, path string, body interface{}) (int, map[string]interface{}) {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

func mariaOrder(address string) map[string]interface{} {
	return map[string]interface{}{
		"client_name":     "Maria",
		"phone":           "31999998888",
		"address":         address,
		"channel":         "DISK ENTREGA",
		"product":         "Gás 13kls",
		"delivery_person": "João",
		"payment_method":  "Pix",
		"value":           110,
	}
}

// TestNewClientOrder covers the first order placed under a new name
func (suite *OrderIntegrationTestSuite) TestNewClientOrder() {
	suite.producer.ExpectSendMessageAndSucceed()

	status, response := suite.request(http.MethodPost, "/api/v1/orders", mariaOrder("Rua A, 10"))
	suite.Require().Equal(http.StatusCreated, status)

	data := response["data"].(map[string]interface{})
	suite.Equal("Maria", data["snapshot_name"])
	suite.Equal("Rua A, 10", data["snapshot_address"])

	var client models.Client
	suite.Require().NoError(suite.db.Where("name = ?", "Maria").First(&client).Error)
	suite.Equal(uint(data["client_id"].(float64)), client.ID)

	var order models.Order
	suite.Require().NoError(suite.db.Preload("Messages").Where("client_id = ?", client.ID).First(&order).Error)
	suite.Require().Len(order.Messages, 2)

	fields := render.Fields{
		ClientName:     "Maria",
		Phone:          "31999998888",
		Address:        "Rua A, 10",
		Channel:        "DISK ENTREGA",
		Product:        "Gás 13kls",
		DeliveryPerson: "João",
		PaymentMethod:  "Pix",
		ValueFormatted: "110,00",
	}
	suite.Equal(render.DeliveryMessage(fields), order.DeliveryMessage().Content)
	suite.Equal(render.ClientMessage(fields), order.ClientMessage().Content)
}

// TestReturningClientKeepsSnapshot covers a second order at a new address
func (suite *OrderIntegrationTestSuite) TestReturningClientKeepsSnapshot() {
	suite.producer.ExpectSendMessageAndSucceed()
	suite.producer.ExpectSendMessageAndSucceed()

	_, first := suite.request(http.MethodPost, "/api/v1/orders", mariaOrder("Rua A, 10"))
	_, second := suite.request(http.MethodPost, "/api/v1/orders", mariaOrder("Rua B, 20"))
	firstData := first["data"].(map[string]interface{})
	secondData := second["data"].(map[string]interface{})

	suite.Equal(firstData["client_id"], secondData["client_id"])

	var clients int64
	suite.Require().NoError(suite.db.Model(&models.Client{}).Count(&clients).Error)
	suite.Equal(int64(1), clients)

	status, response := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", int(firstData["id"].(float64))), nil)
	suite.Require().Equal(http.StatusOK, status)
	reloaded := response["data"].(map[string]interface{})
	suite.Equal("Rua A, 10", reloaded["snapshot_address"])
	suite.Equal("Rua B, 20", reloaded["client"].(map[string]interface{})["address"])

	_, recalled := suite.request(http.MethodGet, "/api/v1/clients/recall?name=Maria", nil)
	suite.Equal("Rua B, 20", recalled["data"].(map[string]interface{})["address"])
}

// TestEditThenDelete renames a client, deletes its order and archives a report
func (suite *OrderIntegrationTestSuite) TestEditThenDelete() {
	suite.producer.ExpectSendMessageAndSucceed()
	suite.producer.ExpectSendMessageAndSucceed()

	_, created := suite.request(http.MethodPost, "/api/v1/orders", mariaOrder("Rua A, 10"))
	id := int(created["data"].(map[string]interface{})["id"].(float64))

	status, _ := suite.request(http.MethodPut, "/api/v1/clients", map[string]interface{}{
		"old_name": "Maria", "name": "Maria Souza", "phone": "31999998888", "address": "Rua A, 10",
	})
	suite.Require().Equal(http.StatusOK, status)

	status, listed := suite.request(http.MethodGet, "/api/v1/orders?q=souza", nil)
	suite.Require().Equal(http.StatusOK, status)
	orders := listed["data"].([]interface{})
	suite.Require().Len(orders, 1, "filter matches the current client name")
	suite.Equal("Maria", orders[0].(map[string]interface{})["snapshot_name"])

	status, archived := suite.request(http.MethodPost, "/api/v1/reports", nil)
	suite.Require().Equal(http.StatusCreated, status)
	key := archived["data"].(map[string]interface{})["key"].(string)
	suite.True(suite.storage.FileExists(key))

	status, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	suite.Equal(http.StatusOK, status)

	status, response := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	suite.Equal(http.StatusNotFound, status)
	suite.Equal("ORDER_NOT_FOUND", response["error"].(map[string]interface{})["code"])

	_, recalled := suite.request(http.MethodGet, "/api/v1/clients/recall?name=Maria%20Souza", nil)
	suite.NotNil(recalled["data"], "clients outlive their orders")
}

// TestEventFailureDoesNotFailOrder keeps the order when the broker rejects the event
func (suite *OrderIntegrationTestSuite) TestEventFailureDoesNotFailOrder() {
	suite.producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	status, _ := suite.request(http.MethodPost, "/api/v1/orders", mariaOrder("Rua A, 10"))
	suite.Equal(http.StatusCreated, status)

	var orders int64
	suite.Require().NoError(suite.db.Model(&models.Order{}).Count(&orders).Error)
	suite.Equal(int64(1), orders)
}

// TestValidationStoresNothing rejects an out-of-catalog product
func (suite *OrderIntegrationTestSuite) TestValidationStoresNothing() {
	body := mariaOrder("Rua A, 10")
	body["product"] = "Lenha"

	status, response := suite.request(http.MethodPost, "/api/v1/orders", body)
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])

	var clients int64
	suite.Require().NoError(suite.db.Model(&models.Client{}).Count(&clients).Error)
	assert.Zero(suite.T(), clients)
}

// TestOrderIntegrationTestSuite runs the order integration test suite
func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
