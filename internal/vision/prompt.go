package vision

import (
	"fmt"
	"strings"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
)

// TaggingPrompt instructs the model to classify each photo using only the
// closed vocabularies and to answer with the strict JSON shape the response
// schema enforces.
var TaggingPrompt = fmt.Sprintf(`You are a fashion metadata tagger for a wardrobe app.
For each item image you receive, decide its category, dominant color and style.

Use ONLY these values, exactly as written:
- category: %s
- primaryColor: %s
- styleTag: %s

If you cannot tell a field from the photo, use "unknown" for that field.
Respond with a single JSON object of the form
{"items":[{"itemId":"...","category":"...","primaryColor":"...","styleTag":"..."}]}
containing one entry per item, in the order given, and nothing else.`,
	strings.Join(model.Categories, ", "),
	strings.Join(model.Colors, ", "),
	strings.Join(model.Styles, ", "),
)
