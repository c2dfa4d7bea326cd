package fyne

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/sargamapp/sargam/internal/domain"
)

// ShowPlaylistNameDialog prompts for a playlist name and passes it to create.
// A validation error from create is shown in a follow-up error dialog.
func ShowPlaylistNameDialog(window fyne.Window, create func(name string) error) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Playlist name")

	items := []*widget.FormItem{
		widget.NewFormItem("Name", entry),
	}

	dialog.ShowForm("New Playlist", "Create", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := create(entry.Text); err != nil {
			dialog.ShowError(err, window)
		}
	}, window)
}

// ShowPlaylistPickerDialog lists the saved playlists and passes the chosen
// playlist's id to selected. Cancelling picks nothing.
func ShowPlaylistPickerDialog(window fyne.Window, playlists []domain.Playlist, selected func(playlistID string)) {
	if len(playlists) == 0 {
		dialog.ShowInformation("Playlists", "No playlists yet", window)
		return
	}

	names := make([]string, 0, len(playlists))
	for _, p := range playlists {
		names = append(names, p.Name)
	}

	picker := widget.NewSelect(names, nil)
	picker.SetSelectedIndex(0)

	items := []*widget.FormItem{
		widget.NewFormItem("Playlist", picker),
	}

	dialog.ShowForm("Choose Playlist", "OK", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		index := picker.SelectedIndex()
		if index < 0 || index >= len(playlists) {
			return
		}
		selected(playlists[index].ID)
	}, window)
}
