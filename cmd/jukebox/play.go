package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/streaming"
)

const volumeStep = 0.1

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play the playlist",
		Long:  `Play the playlist starting from the given track ID, or from the first track added.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return app.play(ctx, id)
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readKeys читает одиночные символы без ожидания Enter
func readKeys(keys chan<- byte) {
	buffer := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buffer); err != nil {
			close(keys)
			return
		}
		keys <- buffer[0]
	}
}

func (app *Application) play(ctx context.Context, id string) error {
	if app.Store.Len() == 0 {
		fmt.Println("📚 Плейлист пуст. Добавьте треки с помощью команды 'add'.")
		return nil
	}

	p := player.NewPlayer()
	defer p.Close()

	controller, err := app.newController(p)
	if err != nil {
		return err
	}
	defer controller.Close()

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if err := startPlayback(controller, id, interactive); err != nil {
		return err
	}

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение   [n/p] - следующий/предыдущий\n")
	fmt.Printf("   [r] - режим повтора   [s] - перемешать   [+/-] - громкость\n")
	fmt.Printf("   [0-9] - перемотка к 0%%-90%%   [q] - выход\n")
	fmt.Println()

	keys := make(chan byte)
	if interactive {
		// Включаем raw режим для чтения одиночных клавиш
		enableRawMode()
		defer disableRawMode()
		go readKeys(keys)
	}

	// Главный цикл обработки событий
	for {
		select {
		case status := <-p.Progress():
			if status.Stalled() {
				controller.OnStartFailed(player.ErrStalled)
				fmt.Printf("\n⚠️  %v: %s\n", player.ErrStalled, streaming.GetStreamStatus(status.StuckCount))
				continue
			}
			progress := controller.OnTimeUpdate(status.Current, status.Total)
			displayProgress(progress, status)

		case <-p.Done():
			if err := controller.OnEnded(); err != nil {
				fmt.Printf("\n❌ %v\n", err)
				continue
			}
			printNowPlaying(controller.State())

		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if quit := handleKey(controller, key); quit {
				p.Stop()
				fmt.Println("\n⏹️  Воспроизведение остановлено")
				return nil
			}

		case <-ctx.Done():
			p.Stop()
			fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
			return nil
		}
	}
}

// startPlayback запускает первый трек сессии. Если трек не стартовал, а пользователь
// может переключить его клавишами, сессия продолжается.
func startPlayback(controller *playback.Controller, id string, interactive bool) error {
	var err error
	if id != "" {
		err = controller.PlayID(id)
	} else {
		err = controller.Play(0)
	}
	if err == nil {
		printNowPlaying(controller.State())
		return nil
	}

	fmt.Printf("❌ %v\n", err)
	if interactive && errors.Is(err, playback.ErrPlaybackStartFailed) {
		fmt.Println("💡 Нажмите [n] или [p], чтобы выбрать другой трек")
		return nil
	}
	return err
}

// handleKey выполняет команду клавиши; возвращает true для выхода
func handleKey(controller *playback.Controller, key byte) bool {
	var err error

	switch {
	case key == 'q':
		return true

	// Пробел или Enter
	case key == ' ' || key == '\n' || key == '\r':
		err = controller.TogglePlayPause()
		fmt.Printf("\r\033[K") // Очищаем текущую строку
		if controller.IsPlaying() {
			fmt.Printf("▶️  Воспроизведение\n")
		} else {
			fmt.Printf("⏸️  Пауза\n")
		}

	case key == 'n':
		err = controller.Next()
		printNowPlaying(controller.State())

	case key == 'p':
		err = controller.Previous()
		printNowPlaying(controller.State())

	case key == 'r':
		mode := controller.CycleRepeatMode()
		fmt.Printf("\r\033[K🔁 Режим: %s\n", mode)

	case key == 's':
		mode := controller.ToggleShuffle()
		fmt.Printf("\r\033[K🔀 Режим: %s\n", mode)

	case key == '+' || key == '=':
		controller.SetVolume(playback.StepVolume(controller.State().Volume, volumeStep))
		printVolume(controller.State().Volume)

	case key == '-':
		controller.SetVolume(playback.StepVolume(controller.State().Volume, -volumeStep))
		printVolume(controller.State().Volume)

	case key >= '0' && key <= '9':
		err = controller.Seek(float64(key-'0') / 10)
	}

	if err != nil {
		fmt.Printf("\r\033[K❌ %v\n", err)
	}
	return false
}

// printNowPlaying выводит информацию о текущем треке
func printNowPlaying(state playback.State) {
	fmt.Printf("\r\033[K")
	if state.Track == nil {
		fmt.Println("⏹️  Ничего не воспроизводится")
		return
	}
	fmt.Printf("🎵 Сейчас играет (%d):\n", state.CurrentIndex+1)
	fmt.Printf("   Исполнитель: %s\n", state.Track.Artist)
	fmt.Printf("   Название: %s\n", state.Track.Name)
	fmt.Printf("   Режим: %s\n", state.RepeatMode)
	fmt.Println()
}

func printVolume(volume float64) {
	icons := map[playback.Loudness]string{
		playback.Mute: "🔇",
		playback.Low:  "🔉",
		playback.High: "🔊",
	}
	fmt.Printf("\r\033[K%s Громкость: %d%%\n", icons[playback.VolumeLevel(volume)], int(volume*100+0.5))
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(progress playback.Progress, status player.Status) {
	statusIcon := "⏱️"
	statusText := streaming.GetStreamStatus(status.StuckCount)

	if !status.IsPlaying {
		statusIcon = "⏸️"
		statusText = "На паузе"
	} else if status.StuckCount > 3 {
		statusIcon = "⚠️"
	} else if status.Speed >= 0.98 && status.Speed <= 1.02 {
		statusIcon = "✅"
	}

	if progress.Duration > 0 {
		fmt.Printf("\r%s  %.1f%% | %s / %s | Статус: %s",
			statusIcon,
			progress.Fraction*100,
			progress.Elapsed,
			progress.Total,
			statusText)
		return
	}
	fmt.Printf("\r%s  %s | Статус: %s", statusIcon, progress.Elapsed, statusText)
}
