// Package models defines the Web API object model and the persisted records of spotkit.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from Web API responses
//   - [SimplifiedAlbum], [FullAlbum], [SavedAlbum]
//   - [SimplifiedArtist], [FullArtist]
//   - [SimplifiedTrack], [FullTrack], [SavedTrack]
//   - [PublicUser], [PrivateUser], [SimplifiedPlaylist], [PlaylistTrack]
//   - [SimplifiedShow], [FullShow], [SimplifiedEpisode], [FullEpisode]
//   - [Category]
//
// 2. Persistent Entities: database-backed records
//   - [ExportRun] : one bulk export of a paginated resource to a file
//
// Paginated collections embed [pager.Page] or [pager.CursorBasedPage] and can be
// turned into item streams by the pager package.
package models
