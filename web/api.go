package web

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"io"
	"net/http"
	"net/url"
	"shm/hashmap"
	"shm/importing"
	ownIo "shm/io"
	"sync"
)

const ContentTypeMsgpack = "application/msgpack"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	response := ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Details = err.Error()
	}
	return response
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// api serves one layer. The spatial hashmap isn't thread-safe, so every access goes through the mutex.
type api struct {
	layer *importing.Layer
	mutex sync.Mutex
}

func StartServer(port string, layer *importing.Layer) {
	r := initRouter(layer)
	sigolo.Infof("Start server on port %s", port)
	err := http.ListenAndServe(":"+port, r)
	sigolo.FatalCheck(err)
}

func initRouter(layer *importing.Layer) *mux.Router {
	a := &api{layer: layer}

	r := mux.NewRouter()
	r.HandleFunc("/nearby", a.handleNearby).Methods(http.MethodPost)
	r.HandleFunc("/groups", a.handleGroups).Methods(http.MethodGet)
	r.HandleFunc("/ws", a.handleWebsocket)

	return r
}

func (a *api) handleNearby(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")

	requestBytes, err := io.ReadAll(request.Body)
	if err != nil {
		sigolo.Errorf("Error reading HTTP body of request to '/nearby': %+v", err)
		writeError(writer, http.StatusInternalServerError, "Error reading HTTP body.", nil)
		return
	}

	rect, err := parseRectangle(requestBytes)
	if err != nil {
		sigolo.Debugf("Invalid request to '/nearby': %s", err.Error())
		writeError(writer, http.StatusBadRequest, "Error parsing range.", err)
		return
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	ids, err := a.layer.NearbyRectangle(rect)
	if err != nil {
		writeError(writer, statusForError(err), fmt.Sprintf("Error querying nearby objects: %s", err.Error()), err)
		return
	}

	sigolo.Debugf("Found %d nearby objects for range %s", len(ids), rect)

	if request.Header.Get("Accept") == ContentTypeMsgpack {
		responseBytes, err := msgpack.Marshal(ids)
		if err != nil {
			sigolo.Errorf("Error encoding nearby objects as msgpack: %+v", err)
			writeError(writer, http.StatusInternalServerError, "Error encoding result.", err)
			return
		}

		writer.Header().Set("Content-Type", ContentTypeMsgpack)
		_, err = writer.Write(responseBytes)
		if err != nil {
			sigolo.Errorf("Error writing msgpack response: %+v", err)
		}
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	err = ownIo.WriteNearbyAsGeoJson(ids, a.layer.Geometries, writer)
	if err != nil {
		sigolo.Errorf("Error writing query result: %+v", err)
	}
}

func (a *api) handleGroups(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")
	writer.Header().Set("Content-Type", "application/json")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	err := ownIo.WriteGroupsAsGeoJson(a.layer.Groups(), a.layer.Geometries, writer)
	if err != nil {
		sigolo.Errorf("Error writing groups: %+v", err)
	}
}

// handleWebsocket answers every text message containing a range with a binary msgpack message of the nearby object
// IDs. Errors are sent back as JSON text message and don't close the connection.
func (a *api) handleWebsocket(writer http.ResponseWriter, request *http.Request) {
	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		sigolo.Errorf("Websocket upgrade error: %+v", err)
		return
	}
	defer conn.Close()

	sigolo.Debugf("Websocket client %s connected", request.RemoteAddr)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sigolo.Errorf("Websocket read error: %+v", err)
			}
			break
		}

		err = a.answerWebsocketMessage(conn, message)
		if err != nil {
			sigolo.Errorf("Websocket write error: %+v", err)
			break
		}
	}

	sigolo.Debugf("Websocket client %s disconnected", request.RemoteAddr)
}

func (a *api) answerWebsocketMessage(conn *websocket.Conn, message []byte) error {
	ids, queryErr := a.nearby(message)
	if queryErr != nil {
		errorResponseBytes, err := json.Marshal(NewErrorResponse("Error querying nearby objects.", queryErr))
		if err != nil {
			return errors.Wrap(err, "Unable to marshal error response object")
		}
		return conn.WriteMessage(websocket.TextMessage, errorResponseBytes)
	}

	responseBytes, err := msgpack.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "Unable to encode nearby objects as msgpack")
	}
	return conn.WriteMessage(websocket.BinaryMessage, responseBytes)
}

func (a *api) nearby(rangeBytes []byte) ([]osm.ObjectID, error) {
	rect, err := parseRectangle(rangeBytes)
	if err != nil {
		return nil, err
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.layer.NearbyRectangle(rect)
}

func statusForError(err error) int {
	if errors.Is(err, hashmap.ErrInvalidRectangle) || errors.Is(err, hashmap.ErrOutOfBounds) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	errorResponseBytes, err := json.Marshal(NewErrorResponse(message, err))
	if err != nil {
		sigolo.Errorf("Error creating and marshalling error response object: %+v", err)
	}

	_, err = writer.Write(errorResponseBytes)
	if err != nil {
		sigolo.Errorf("Error writing error response: %+v", err)
	}
}
