package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/comercio-api/pkg/config"
)

const (
	poolMaxConns     = 25
	poolMinConns     = 2
	poolConnLifetime = time.Hour
	poolConnIdle     = 30 * time.Minute
	poolHealthEvery  = time.Minute
	poolPingTimeout  = 5 * time.Second
)

// NewPool abre el pool de PostgreSQL de la aplicación. DATABASE_URL tiene
// prioridad; si no está, el DSN se arma desde las variables DB_*. El host se
// fuerza a IPv4 cuando se puede: los contenedores suelen carecer de IPv6 y
// algunos proveedores resuelven sólo AAAA.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsnFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("parsear DSN: %w", err)
	}

	poolCfg.MaxConns = poolMaxConns
	poolCfg.MinConns = poolMinConns
	poolCfg.MaxConnLifetime = poolConnLifetime
	poolCfg.MaxConnIdleTime = poolConnIdle
	poolCfg.HealthCheckPeriod = poolHealthEvery
	poolCfg.ConnConfig.DialFunc = dialIPv4First

	// NUMERIC <-> shopspring/decimal en cada conexión del pool.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, poolPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping a PostgreSQL: %w", err)
	}
	return pool, nil
}

func dsnFor(cfg config.DBConfig) string {
	if cfg.DatabaseURL != "" {
		return urlWithIPv4Host(cfg.DatabaseURL)
	}
	if ip, err := lookupIPv4(cfg.Host); err == nil {
		cfg.Host = ip
	}
	return cfg.DSN()
}

// dialIPv4First marca tcp4 si el host resuelve a IPv4; si no, deja que el
// dialer intente normalmente.
func dialIPv4First(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// lookupIPv4 resuelve el host a una dirección IPv4. Prueba el resolver del
// sistema y reintenta contra un DNS público: el del contenedor puede devolver
// sólo registros AAAA.
func lookupIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s no tiene IPv4", host)
		}
		return host, nil
	}
	if ips, err := net.LookupIP(host); err == nil {
		if ip := firstIPv4(ips); ip != "" {
			return ip, nil
		}
	}
	fallback := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	ips, err := fallback.LookupIP(context.Background(), "ip4", host)
	if err != nil {
		return "", err
	}
	if ip := firstIPv4(ips); ip != "" {
		return ip, nil
	}
	return "", fmt.Errorf("%s no resuelve a IPv4", host)
}

func firstIPv4(ips []net.IP) string {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}

// urlWithIPv4Host reescribe el host de la URL de conexión con su IPv4; si no
// se puede resolver, la URL queda como vino.
func urlWithIPv4Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	ip, err := lookupIPv4(u.Hostname())
	if err != nil {
		return raw
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}
