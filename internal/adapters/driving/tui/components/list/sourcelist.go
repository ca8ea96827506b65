// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/tui/styles"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// SourceList displays the chunks behind an answer in a navigable list.
type SourceList struct {
	sources  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		sources:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the source list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the source list.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No chunks retrieved")
	}

	lines := make([]string, 0, len(l.sources)*2+2)

	header := l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources)))
	lines = append(lines, header, "")

	// Each source takes two lines, header takes two more.
	visibleCount := (l.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.sources) {
		end = len(l.sources)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSource(i, &l.sources[i]))
	}

	return strings.Join(lines, "\n")
}

// renderSource formats a single retrieved chunk with its score.
func (l *SourceList) renderSource(index int, source *domain.SearchResult) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s[%d] score %.4f  chunk %d", indicator, index+1, source.Score, source.Entry.Position)

	var headLine string
	if index == l.selected {
		headLine = l.styles.Selected.Render(head)
	} else {
		headLine = l.styles.Normal.Render(head)
	}

	preview := source.Entry.Content
	if cut := strings.IndexByte(preview, '\n'); cut >= 0 {
		preview = preview[:cut]
	}
	maxPreviewLen := l.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		cut := maxPreviewLen - 3
		for cut > 0 && preview[cut]&0xC0 == 0x80 {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	previewLine := l.styles.Muted.Render("    " + preview)

	return headLine + "\n" + previewLine
}

// SetSources updates the source list.
func (l *SourceList) SetSources(sources []domain.SearchResult) {
	l.sources = sources
	l.selected = 0
}

// Sources returns the current sources.
func (l *SourceList) Sources() []domain.SearchResult {
	return l.sources
}

// Selected returns the index of the selected source.
func (l *SourceList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *SourceList) SetSelected(index int) {
	if index >= 0 && index < len(l.sources) {
		l.selected = index
	}
}

// SelectedSource returns the currently selected source, or nil if none.
func (l *SourceList) SelectedSource() *domain.SearchResult {
	if len(l.sources) == 0 || l.selected < 0 || l.selected >= len(l.sources) {
		return nil
	}
	return &l.sources[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *SourceList) Width() int {
	return l.width
}

// Height returns the current height.
func (l *SourceList) Height() int {
	return l.height
}

// Count returns the number of sources.
func (l *SourceList) Count() int {
	return len(l.sources)
}

// IsEmpty returns whether the list is empty.
func (l *SourceList) IsEmpty() bool {
	return len(l.sources) == 0
}
