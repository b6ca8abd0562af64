// Package models defines the domain entities shared across the wavedl packages.
//
// The package contains three categories of types:
//
// 1. Remote metadata: structs describing tracks, albums, and playlists as
// returned by music services
//   - [TrackMeta] : Song metadata used to build search queries and tag files
//   - [AlbumMeta] : Album name, artist, and full track listing
//   - [PlaylistInfo] : Lightweight playlist identity (name and track count)
//   - [PlaylistMeta] : Playlist with its complete track listing
//
// 2. Library entries: records describing files already on disk
//   - [TrackEntry] : A downloaded track as recorded in the dedup catalog
//
// 3. Output profiles: knobs controlling how files are written
//   - [PortableProfile] : Cover size, cover byte budget, and filename length
//     limits for normal versus portable-player output
package models
