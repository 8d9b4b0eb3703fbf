/*
Package art is responsible for getting album cover art over the internet.

It finds album artwork by first querying the MusicBrainz web service for a
releaseID using the artist name and album name. Then using this ID it
queries the Cover Art Archive for the corresponding album front art.

Additionally it can search the Spotify catalogue for candidate cover images
which is useful when the Cover Art Archive has nothing for a release.

The following APIs are used to achieve this package's objective:

  - MusicBrainz API: https://musicbrainz.org/doc/Development/XML_Web_Service/Version_2
  - Cover Art Archive: https://musicbrainz.org/doc/Cover_Art_Archive/
  - Spotify Web API: https://developer.spotify.com/documentation/web-api
*/
package art
