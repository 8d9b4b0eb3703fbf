/*
Package bio is responsible for getting artist biographies over the internet.

Biographies are retrieved from the Wikipedia action API. A single biography
fetch is a chain of requests: one for the article extract, one for the list
of images in the article and then one per image for its URL and dimensions.

API documentation: https://www.mediawiki.org/wiki/API:Main_page
*/
package bio
