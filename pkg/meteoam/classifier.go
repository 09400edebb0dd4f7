package meteoam

import (
	"bytes"
	"strings"

	"github.com/kotrzina/meteoam/pkg/utils"
)

// blockedBody is served instead of the location page when meteoam throttles the client
const blockedBody = "<html><body>\n<h2>\n<p>\n   Non disponi dei permessi necessari per accedere all'oggetto\n   richiesto, oppure l'oggetto non pu&ograve; essere letto dal server.\n</p>\n<p>\nBuona navigazione! <BR>\n#Metweb Staff#\n</p>\n</h2>\n</body></html>\n"

// unusedHeading is the page header text of an identifier without location
const unusedHeading = "Previsioni per localita"

// CheckBlocked fails with ErrBlockedRequest when the body is the block page
// It must run before parsing since the block page is not a location page.
func CheckBlocked(id uint64, body []byte) error {
	if bytes.Equal(body, []byte(blockedBody)) {
		return &IdentifierError{ID: id, Err: ErrBlockedRequest}
	}

	return nil
}

// CheckUnused fails with ErrUnusedIdentifier when the page header says
// there is no location for the identifier
// Comparison is done on the rendered text with diacritics folded,
// so "Previsioni per località" matches as well.
func CheckUnused(id uint64, doc *Document) error {
	header := doc.PageHeader()
	if header == nil {
		return nil
	}

	if utils.FoldDiacritics(strings.TrimSpace(header.Text())) == unusedHeading {
		return &IdentifierError{ID: id, Err: ErrUnusedIdentifier}
	}

	return nil
}
