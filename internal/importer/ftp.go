package importer

import (
	"context"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ftpTimeout bounds the FTP dial.
const ftpTimeout = 30 * time.Second

// ImportFTP downloads a lead file from an ftp:// URL and imports it. The
// format is inferred from the path extension: .xlsx is parsed as a
// workbook, everything else as CSV. Anonymous login only.
func (imp *Importer) ImportFTP(ctx context.Context, ftpURL string) (*Result, error) {
	host, path, err := parseFTPURL(ftpURL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("importer: fetching over ftp",
		zap.String("host", host),
		zap.String("path", path),
	)

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(ftpTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "importer: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return nil, eris.Wrap(err, "importer: ftp login")
	}

	resp, err := conn.Retr(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: ftp retrieve")
	}
	defer resp.Close() //nolint:errcheck

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		data, err := io.ReadAll(resp)
		if err != nil {
			return nil, eris.Wrap(err, "importer: ftp read")
		}
		result, err := imp.ImportXLSX(ctx, data)
		if err != nil {
			return nil, err
		}
		result.Source = "ftp"
		return result, nil
	}

	result, err := imp.ImportCSV(ctx, resp)
	if err != nil {
		return nil, err
	}
	result.Source = "ftp"
	return result, nil
}

// parseFTPURL extracts host (with port) and path from an FTP URL.
func parseFTPURL(rawURL string) (host, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "importer: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("importer: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	if u.Path == "" {
		return "", "", eris.New("importer: empty path in ftp url")
	}
	return host, u.Path, nil
}
