package fyne

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sargamapp/sargam/internal/domain"
)

const (
	appDisplayName = "Sargam"
	windowWidth    = 920
	windowHeight   = 600
)

// MainWindow is the main UI window implementing the UIView interface.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	// UI components
	searchEntry    *widget.Entry
	searchButton   *widget.Button
	moreButton     *widget.Button
	resultsList    *widget.List
	queueList      *widget.List
	prevButton     *widget.Button
	playButton     *widget.Button
	nextButton     *widget.Button
	modeButton     *widget.Button
	shuffleButton  *widget.Button
	favButton      *widget.Button
	downloadButton *widget.Button
	songInfo       *widget.Label
	loadingBar     *widget.ProgressBarInfinite
	currentTime    *widget.Label
	endTime        *widget.Label
	progressSlider *widget.Slider
	miniPlayer     *fyneapp.Container
	miniSongInfo   *widget.Label

	// List data (copies owned by the window)
	dataMu       sync.RWMutex
	results      []domain.Song
	queue        []domain.Song
	currentIndex int
	playlists    []domain.Playlist

	// seeking suppresses progress updates while the user drags the slider.
	seeking bool

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window.
func NewMainWindow(app fyneapp.App) *MainWindow {
	w := &MainWindow{
		app:          app,
		currentIndex: -1,
	}

	w.window = app.NewWindow(appDisplayName)
	w.buildUI()

	w.window.Resize(fyneapp.Size{
		Width:  windowWidth,
		Height: windowHeight,
	})

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	// Search area
	w.searchEntry = widget.NewEntry()
	w.searchEntry.SetPlaceHolder("Search songs...")
	w.searchButton = widget.NewButtonWithIcon("", theme.SearchIcon(), nil)
	w.moreButton = widget.NewButton("More results", nil)
	w.moreButton.Hide()

	w.resultsList = widget.NewList(
		func() int {
			w.dataMu.RLock()
			defer w.dataMu.RUnlock()
			return len(w.results)
		},
		func() fyneapp.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyneapp.CanvasObject) {
			w.dataMu.RLock()
			defer w.dataMu.RUnlock()
			if id < 0 || id >= len(w.results) {
				return
			}
			song := w.results[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s - %s", song.Name, song.ArtistNames()))
		},
	)

	// Queue area
	w.queueList = widget.NewList(
		func() int {
			w.dataMu.RLock()
			defer w.dataMu.RUnlock()
			return len(w.queue)
		},
		func() fyneapp.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyneapp.CanvasObject) {
			w.dataMu.RLock()
			defer w.dataMu.RUnlock()
			if id < 0 || id >= len(w.queue) {
				return
			}
			song := w.queue[id]
			marker := "   "
			if id == w.currentIndex {
				marker = "▶ "
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s%s - %s", marker, song.Name, song.ArtistNames()))
		},
	)

	// Transport buttons
	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)
	w.modeButton = widget.NewButton("normal", nil)
	w.shuffleButton = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), nil)
	w.favButton = widget.NewButtonWithIcon("", theme.VisibilityOffIcon(), nil)
	w.downloadButton = widget.NewButtonWithIcon("", theme.DownloadIcon(), nil)

	// Song info
	w.songInfo = widget.NewLabel("No song loaded")
	w.songInfo.Truncation = fyneapp.TextTruncateClip
	w.songInfo.TextStyle = fyneapp.TextStyle{Bold: true}
	w.loadingBar = widget.NewProgressBarInfinite()
	w.loadingBar.Hide()

	// Progress slider
	w.progressSlider = widget.NewSlider(0, 100)
	w.currentTime = widget.NewLabel("00:00")
	w.endTime = widget.NewLabel("00:00")
	sliderHolder := container.NewBorder(nil, nil, w.currentTime, w.endTime, w.progressSlider)

	buttonsHBox := container.NewHBox(
		w.prevButton, w.playButton, w.nextButton,
		w.modeButton, w.shuffleButton, w.favButton, w.downloadButton,
	)
	controls := container.NewVBox(
		container.NewBorder(nil, nil, buttonsHBox, nil, w.songInfo),
		w.loadingBar,
		sliderHolder,
	)

	// Mini player (compact bar shown below the main controls)
	w.miniSongInfo = widget.NewLabel("")
	w.miniSongInfo.Truncation = fyneapp.TextTruncateClip
	miniPlay := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if w.presenter != nil {
			w.presenter.OnPlayPauseClicked()
		}
	})
	miniNext := widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() {
		if w.presenter != nil {
			w.presenter.OnNextClicked()
		}
	})
	w.miniPlayer = container.NewBorder(nil, nil, nil,
		container.NewHBox(miniPlay, miniNext), w.miniSongInfo)

	// Main layout: search + results on the left, queue on the right
	searchHolder := container.NewBorder(nil, nil, nil, w.searchButton, w.searchEntry)
	left := container.NewBorder(searchHolder, w.moreButton, nil, nil, w.resultsList)
	right := container.NewBorder(widget.NewLabel("Queue"), nil, nil, nil, w.queueList)
	split := container.NewHSplit(left, right)
	split.SetOffset(0.5)

	bottom := container.NewVBox(controls, w.miniPlayer)
	w.window.SetContent(container.NewPadded(
		container.NewBorder(nil, bottom, nil, nil, split),
	))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.playButton.OnTapped = w.presenter.OnPlayPauseClicked
	w.nextButton.OnTapped = w.presenter.OnNextClicked
	w.prevButton.OnTapped = w.presenter.OnPreviousClicked
	w.modeButton.OnTapped = w.presenter.OnPlayModeClicked
	w.shuffleButton.OnTapped = w.presenter.OnShuffleQueueClicked
	w.favButton.OnTapped = w.presenter.OnFavoriteClicked
	w.downloadButton.OnTapped = w.presenter.OnDownloadClicked

	w.searchEntry.OnSubmitted = func(query string) {
		w.presenter.OnSearchSubmitted(query)
	}
	w.searchButton.OnTapped = func() {
		w.presenter.OnSearchSubmitted(w.searchEntry.Text)
	}
	w.moreButton.OnTapped = w.presenter.OnLoadMoreResults

	w.resultsList.OnSelected = func(id widget.ListItemID) {
		w.resultsList.Unselect(id)
		w.presenter.OnResultSelected(id)
	}
	w.queueList.OnSelected = func(id widget.ListItemID) {
		w.queueList.Unselect(id)
		w.presenter.OnQueueSongSelected(id)
	}

	w.progressSlider.OnChanged = func(value float64) {
		w.dataMu.Lock()
		w.seeking = true
		w.dataMu.Unlock()
	}
	w.progressSlider.OnChangeEnded = func(value float64) {
		w.dataMu.Lock()
		w.seeking = false
		w.dataMu.Unlock()
		w.presenter.OnSeekRequested(value)
	}
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	separator := fyneapp.NewMenuItemSeparator()

	playFavorites := fyneapp.NewMenuItem("Play Favorites", func() {
		w.presenter.OnPlayFavorites()
	})

	newPlaylist := fyneapp.NewMenuItem("New Playlist…", func() {
		ShowPlaylistNameDialog(w.window, w.presenter.OnPlaylistCreated)
	})

	addToPlaylist := fyneapp.NewMenuItem("Add Current Song to Playlist…", func() {
		ShowPlaylistPickerDialog(w.window, w.presenter.Playlists(), w.presenter.OnAddCurrentToPlaylist)
	})

	playPlaylist := fyneapp.NewMenuItem("Play Playlist…", func() {
		ShowPlaylistPickerDialog(w.window, w.presenter.Playlists(), w.presenter.OnPlaylistSelected)
	})

	toggleTheme := fyneapp.NewMenuItem("Toggle Theme", func() {
		w.presenter.OnThemeClicked()
	})

	miniPlayerItem := fyneapp.NewMenuItem("Toggle Mini Player", func() {
		w.presenter.OnMiniPlayerToggled(!w.miniPlayer.Visible())
	})

	exitItem := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})

	library := fyneapp.NewMenu("Library",
		playFavorites, separator,
		newPlaylist, addToPlaylist, playPlaylist, separator,
		exitItem)
	view := fyneapp.NewMenu("View", toggleTheme, miniPlayerItem)

	return []*fyneapp.Menu{library, view}
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// UIView interface implementation

// SetPlayState updates the play/pause button state.
func (w *MainWindow) SetPlayState(playing bool) {
	if playing {
		w.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		w.playButton.SetIcon(theme.MediaPlayIcon())
	}
	w.playButton.Refresh()
}

// SetLoadingState shows or hides the indeterminate loading bar.
func (w *MainWindow) SetLoadingState(loading bool) {
	if loading {
		w.loadingBar.Show()
		w.loadingBar.Start()
	} else {
		w.loadingBar.Stop()
		w.loadingBar.Hide()
	}
}

// SetPlayMode updates the mode button caption.
func (w *MainWindow) SetPlayMode(mode domain.PlayMode) {
	w.modeButton.SetText(string(mode))
}

// SetTrackInfo updates the displayed track information.
func (w *MainWindow) SetTrackInfo(title, artists, album string) {
	var text string
	switch {
	case artists != "" && title != "":
		text = fmt.Sprintf("%s - %s", artists, title)
	case title != "":
		text = title
	default:
		text = "No song loaded"
	}
	w.songInfo.SetText(text)
	w.miniSongInfo.SetText(text)
}

// SetFavoriteState updates the favorite button state.
func (w *MainWindow) SetFavoriteState(favorited bool) {
	if favorited {
		w.favButton.SetIcon(theme.ConfirmIcon())
	} else {
		w.favButton.SetIcon(theme.VisibilityOffIcon())
	}
	w.favButton.Refresh()
}

// SetDownloadState updates the download button state.
func (w *MainWindow) SetDownloadState(downloaded bool) {
	if downloaded {
		w.downloadButton.SetIcon(theme.ConfirmIcon())
		w.downloadButton.Disable()
	} else {
		w.downloadButton.SetIcon(theme.DownloadIcon())
		w.downloadButton.Enable()
	}
	w.downloadButton.Refresh()
}

// SetCurrentTime updates the current playback time display.
func (w *MainWindow) SetCurrentTime(seconds float64) {
	format := fmt.Sprintf("%.2d:%.2d", int(seconds/60), int(math.Mod(seconds, 60)))
	w.currentTime.SetText(format)
}

// SetTotalTime updates the total track duration display.
func (w *MainWindow) SetTotalTime(seconds float64) {
	format := fmt.Sprintf("%.2d:%.2d", int(seconds/60), int(math.Mod(seconds, 60)))
	w.progressSlider.Max = seconds
	w.endTime.SetText(format)
}

// SetProgress updates the progress slider position.
func (w *MainWindow) SetProgress(position, duration float64) {
	w.dataMu.RLock()
	seeking := w.seeking
	w.dataMu.RUnlock()

	if seeking || duration <= 0 {
		return
	}
	w.progressSlider.Value = position
	w.progressSlider.Refresh()
}

// RefreshQueue replaces the queue list contents.
func (w *MainWindow) RefreshQueue(queue []domain.Song, currentIndex int) {
	w.dataMu.Lock()
	w.queue = queue
	w.currentIndex = currentIndex
	w.dataMu.Unlock()

	w.queueList.Refresh()
}

// RefreshSearchResults replaces the results list contents.
func (w *MainWindow) RefreshSearchResults(results []domain.Song) {
	w.dataMu.Lock()
	w.results = results
	w.dataMu.Unlock()

	w.resultsList.Refresh()
	if len(results) > 0 {
		w.moreButton.Show()
	} else {
		w.moreButton.Hide()
	}
}

// RefreshPlaylists stores the playlist collection for the menu dialogs.
func (w *MainWindow) RefreshPlaylists(playlists []domain.Playlist) {
	w.dataMu.Lock()
	w.playlists = playlists
	w.dataMu.Unlock()
}

// ApplyTheme switches the application between light and dark appearance.
func (w *MainWindow) ApplyTheme(t domain.Theme) {
	variant := theme.VariantLight
	if t == domain.ThemeDark {
		variant = theme.VariantDark
	}
	w.app.Settings().SetTheme(&forcedVariantTheme{variant: variant})
}

// SetMiniPlayerVisible shows or hides the mini player bar.
func (w *MainWindow) SetMiniPlayerVisible(visible bool) {
	if visible {
		w.miniPlayer.Show()
	} else {
		w.miniPlayer.Hide()
	}
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// forcedVariantTheme pins the default theme to a specific variant so the
// light/dark preference wins over the OS setting.
type forcedVariantTheme struct {
	variant fyneapp.ThemeVariant
}

func (t *forcedVariantTheme) Color(name fyneapp.ThemeColorName, _ fyneapp.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t *forcedVariantTheme) Font(style fyneapp.TextStyle) fyneapp.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *forcedVariantTheme) Icon(name fyneapp.ThemeIconName) fyneapp.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *forcedVariantTheme) Size(name fyneapp.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// Verify UIView implementation
var _ UIView = (*MainWindow)(nil)
