package classroom

import (
	"github.com/gin-gonic/gin"
	webrtc "github.com/pion/webrtc/v3"

	"github.com/classlab/backend/pkg/response"
)

// ICEServersHandler returns the STUN/TURN catalog classroom clients feed
// into their RTCPeerConnection configuration.
func ICEServersHandler(iceURLs []string) gin.HandlerFunc {
	servers := make([]webrtc.ICEServer, 0, len(iceURLs))
	for _, u := range iceURLs {
		if u != "" {
			servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
		}
	}
	return func(c *gin.Context) {
		response.OK(c, gin.H{"iceServers": servers})
	}
}

// ParticipantCountHandler reports the live participant count of a room.
func ParticipantCountHandler(server *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			response.BadRequest(c, "invalid room id")
			return
		}
		response.OK(c, gin.H{"roomId": roomID, "count": server.ParticipantCount(roomID)})
	}
}
