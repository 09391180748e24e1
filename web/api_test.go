package web

import (
	"bytes"
	"encoding/json"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/vmihailenco/msgpack/v5"
	"io"
	"net/http"
	"net/http/httptest"
	"shm/importing"
	"shm/util"
	"strings"
	"testing"
	"time"
)

var expectedNearbyIds = []osm.ObjectID{
	importing.NodeObjectID(1),
	importing.NodeObjectID(2),
	importing.NodeObjectID(3),
	importing.WayObjectID(10),
}

const validRange = `{"x": 9.4, "y": 53.4, "width": 0.4, "height": 0.3}`

var invalidRanges = []string{
	``,
	`null`,
	`true`,
	`false`,
	`{}`,
	`"cat"`,
	`{"x": 1}`,
	`{"y": 1}`,
	`{"width": 1}`,
	`{"height": 1}`,
	`{"x": 1, "y": 1, "width": "dog", "height": 1}`,
}

func startTestServer(t *testing.T) *httptest.Server {
	layer, err := importing.Import("../testdata/small.osm", 360)
	util.AssertNil(t, err)

	server := httptest.NewServer(initRouter(layer))
	t.Cleanup(server.Close)
	return server
}

func postNearby(t *testing.T, server *httptest.Server, body string, accept string) *http.Response {
	request, err := http.NewRequest(http.MethodPost, server.URL+"/nearby", strings.NewReader(body))
	util.AssertNil(t, err)
	if accept != "" {
		request.Header.Set("Accept", accept)
	}

	response, err := http.DefaultClient.Do(request)
	util.AssertNil(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func dialWebsocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestApi_nearbyAsGeoJson(t *testing.T) {
	// Arrange
	server := startTestServer(t)

	// Act
	response := postNearby(t, server, validRange, "")

	// Assert
	util.AssertEqual(t, http.StatusOK, response.StatusCode)
	util.AssertEqual(t, "application/json", response.Header.Get("Content-Type"))

	body, err := io.ReadAll(response.Body)
	util.AssertNil(t, err)
	featureCollection, err := geojson.UnmarshalFeatureCollection(body)
	util.AssertNil(t, err)
	util.AssertEqual(t, len(expectedNearbyIds), len(featureCollection.Features))
	util.AssertEqual(t, "way", featureCollection.Features[3].Properties["@osm_type"])
}

func TestApi_nearbyAsMsgpack(t *testing.T) {
	// Arrange
	server := startTestServer(t)

	// Act
	response := postNearby(t, server, validRange, ContentTypeMsgpack)

	// Assert
	util.AssertEqual(t, http.StatusOK, response.StatusCode)
	util.AssertEqual(t, ContentTypeMsgpack, response.Header.Get("Content-Type"))

	body, err := io.ReadAll(response.Body)
	util.AssertNil(t, err)
	var ids []osm.ObjectID
	err = msgpack.Unmarshal(body, &ids)
	util.AssertNil(t, err)
	util.AssertEqual(t, expectedNearbyIds, ids)
}

func TestApi_nearbyWithInvalidRange(t *testing.T) {
	server := startTestServer(t)

	for _, invalidRange := range invalidRanges {
		response := postNearby(t, server, invalidRange, "")

		util.AssertEqual(t, http.StatusBadRequest, response.StatusCode)

		var errorResponse ErrorResponse
		err := json.NewDecoder(response.Body).Decode(&errorResponse)
		util.AssertNil(t, err)
		util.AssertEqual(t, "Error parsing range.", errorResponse.Error)
		util.AssertTrue(t, strings.HasSuffix(errorResponse.Details, "invalid rectangle"))
	}
}

func TestApi_nearbyOutOfBounds(t *testing.T) {
	// Arrange
	server := startTestServer(t)

	// Act
	response := postNearby(t, server, `{"x": -200, "y": -100, "width": 1, "height": 1}`, "")

	// Assert
	util.AssertEqual(t, http.StatusBadRequest, response.StatusCode)

	var errorResponse ErrorResponse
	err := json.NewDecoder(response.Body).Decode(&errorResponse)
	util.AssertNil(t, err)
	util.AssertTrue(t, strings.HasSuffix(errorResponse.Details, "rectangle out of bounds"))
}

func TestApi_nearbyWithWrongMethod(t *testing.T) {
	server := startTestServer(t)

	response, err := http.Get(server.URL + "/nearby")
	util.AssertNil(t, err)
	defer response.Body.Close()

	util.AssertEqual(t, http.StatusMethodNotAllowed, response.StatusCode)
}

func TestApi_groups(t *testing.T) {
	// Arrange
	server := startTestServer(t)

	// Act
	response, err := http.Get(server.URL + "/groups")

	// Assert
	util.AssertNil(t, err)
	defer response.Body.Close()
	util.AssertEqual(t, http.StatusOK, response.StatusCode)

	body, err := io.ReadAll(response.Body)
	util.AssertNil(t, err)
	featureCollection, err := geojson.UnmarshalFeatureCollection(body)
	util.AssertNil(t, err)
	util.AssertEqual(t, 5, len(featureCollection.Features))
	util.AssertEqual(t, true, featureCollection.Features[0].Properties["@cell"])
	for _, feature := range featureCollection.Features {
		util.AssertEqual(t, float64(0), feature.Properties["@group"])
	}
}

func TestApi_nearbyFindsOnlyObjectsAtRange(t *testing.T) {
	// Arrange
	server := startTestServer(t)

	// Act
	response := postNearby(t, server, `{"x": 18.3, "y": -34, "width": 0.2, "height": 0.2}`, ContentTypeMsgpack)

	// Assert
	util.AssertEqual(t, http.StatusOK, response.StatusCode)
	body, err := io.ReadAll(response.Body)
	util.AssertNil(t, err)
	var ids []osm.ObjectID
	err = msgpack.Unmarshal(body, &ids)
	util.AssertNil(t, err)
	util.AssertEqual(t, []osm.ObjectID{importing.NodeObjectID(4)}, ids)
}

func TestApi_websocketNearby(t *testing.T) {
	// Arrange
	server := startTestServer(t)
	conn := dialWebsocket(t, server)

	// Act
	err := conn.WriteMessage(websocket.TextMessage, []byte(validRange))
	util.AssertNil(t, err)

	// Assert
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, message, err := conn.ReadMessage()
	util.AssertNil(t, err)
	util.AssertEqual(t, websocket.BinaryMessage, messageType)

	var ids []osm.ObjectID
	err = msgpack.Unmarshal(message, &ids)
	util.AssertNil(t, err)
	util.AssertEqual(t, expectedNearbyIds, ids)
}

func TestApi_websocketInvalidRangeKeepsConnection(t *testing.T) {
	// Arrange
	server := startTestServer(t)
	conn := dialWebsocket(t, server)

	// Act
	err := conn.WriteMessage(websocket.TextMessage, []byte(`{"x": 1}`))
	util.AssertNil(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	errorMessageType, errorMessage, err := conn.ReadMessage()
	util.AssertNil(t, err)

	err = conn.WriteMessage(websocket.TextMessage, []byte(validRange))
	util.AssertNil(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, _, err := conn.ReadMessage()
	util.AssertNil(t, err)

	// Assert
	util.AssertEqual(t, websocket.TextMessage, errorMessageType)
	var errorResponse ErrorResponse
	err = json.NewDecoder(bytes.NewReader(errorMessage)).Decode(&errorResponse)
	util.AssertNil(t, err)
	util.AssertEqual(t, "Error querying nearby objects.", errorResponse.Error)

	util.AssertEqual(t, websocket.BinaryMessage, messageType)
}
