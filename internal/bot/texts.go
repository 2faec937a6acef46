package bot

// User-facing messages.
const (
	textChooseSearch   = "Choose a search type:"
	textEnterArtist    = "Enter an artist name:"
	textEnterAlbum     = "Enter an album name:"
	textUseSearch      = "Please use search or the bot commands to add music."
	textTextOnly       = "Use text only to search for music!"
	textGenericError   = "Something went wrong. Please try again later."
	textSearchFailed   = "Search failed. Please try again later or refine your query."
	textAlbumFailed    = "Could not load the album tracks. Please try again later."
	textNoArtistTracks = "No tracks found for artist '%s'. Try refining the name."
	textNoAlbums       = "No albums named '%s' found. Check the spelling."
	textArtistHeader   = "👤 Artist: %s\n📀 Tracks found: %s\n\nChoose a track to download:"
	textAlbumsHeader   = "Found %s albums for '%s' (page %d):"
	textAlbumHeader    = "🎵 Album: %s\n👤 Artist: %s\n\nChoose a track to download:"
	textAlbumEmpty     = "This album has no tracks."
	textTrackNotFound  = "Track not found."
	textTrackFailed    = "Could not fetch track: %s\nTry again or choose another track."
	textHereIsTrack    = "Here is your track!"

	labelArtistSearch = "Artist search"
	labelAlbumSearch  = "Album search"
	labelPrev         = "⬅️ Back"
	labelNext         = "Next ➡️"
)
