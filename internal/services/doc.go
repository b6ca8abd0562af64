// Package services defines the [Catalog] interface for music metadata
// providers and implements it for Spotify and YouTube.
//
// # Catalog Interface
//
// All providers implement a common abstraction, so the worker resolves
// albums and playlists uniformly regardless of where the link came from.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client credentials flow via
// [clientcredentials.Config], which suffices for the public album,
// playlist, and search endpoints. Requests are paced with a [rate.Limiter]
// to stay under Spotify's throttling thresholds.
//
// # YouTube Implementation
//
// [YouTubeService] shells out to yt-dlp with --flat-playlist for a
// metadata-only dump, so resolving a large playlist never downloads media.
// Only playlist operations are supported; album fetch and track search
// report [shared.ErrNotImplemented].
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrMissingCredentials] : credentials absent or rejected
//   - [shared.ErrResourceNotFound] : 404s, augmented with a hint that the
//     resource may be private
//   - [shared.ErrAPIRequest] : transport failures and non-2xx statuses
//   - [shared.ErrTrackNotFound] : a search produced no match
package services
