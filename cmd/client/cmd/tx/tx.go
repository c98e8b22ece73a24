package tx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client/render"
	"antaracc/internal/domain/ledger"

	"github.com/spf13/cobra"
)

var TxCmd = &cobra.Command{
	Use:   "tx",
	Short: "Проверка и индексация транзакций",
	Long: `Транзакция читается из JSON-файла в формате индекса
(txid, height, vin, vout). Вместо пути можно передать "-" для stdin.`,
}

var ValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Проверить транзакцию правилами модулей без записи в индекс",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		dto, err := readTx(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		res, err := app.ValidateTx(cmd.Context(), dto)
		if err != nil {
			return fmt.Errorf("транзакция отклонена: %w", err)
		}
		view := render.View{
			Headers: []string{"txid", "valid", "state"},
			Rows:    [][]string{{res.TxID, fmt.Sprint(res.Valid), res.State}},
		}
		return p.Print(res, view)
	},
}

var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Проверить и добавить транзакцию в индекс",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, p, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		dto, err := readTx(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		res, err := app.ImportTx(cmd.Context(), dto)
		if err != nil {
			return fmt.Errorf("ошибка индексации: %w", err)
		}
		view := render.View{
			Headers: []string{"txid", "state"},
			Rows:    [][]string{{res.TxID, res.State}},
		}
		return p.Print(res, view)
	},
}

func readTx(stdin io.Reader, path string) (ledger.TxDTO, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return ledger.TxDTO{}, fmt.Errorf("ошибка чтения транзакции: %w", err)
	}
	var dto ledger.TxDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return ledger.TxDTO{}, fmt.Errorf("некорректный JSON транзакции: %w", err)
	}
	return dto, nil
}
