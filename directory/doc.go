// Package directory talks to the lobby directory, the HTTP service peers use
// to publish, list and find lobbies by name.
//
// Endpoints, relative to the base URL of the service:
//
//	GET  /                 lists the lobbies
//	POST /                 creates a lobby, the caller becoming its host
//	POST /name/{lobby}     joins the lobby with the given name
//
// Both POST endpoints take {"userName", "gameName", "ipAddress"}, where
// ipAddress carries "ip:port", and answer with the lobby, in which every
// peer also carries "ip:port" as its ipAddress.
//
// Client consumes the service. Server is an in-memory implementation of it,
// suitable for a LAN party or a test.
package directory
